// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers.

It wraps google/uuid to generate Version 7 values. They serve as generated
collection slugs, so they must also be unguessable.

Properties:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Unguessable: 74 random bits follow the timestamp.
  - Slug-safe: lowercase hex and hyphens only.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
//
// It panics only when the OS entropy source fails, which is unrecoverable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
