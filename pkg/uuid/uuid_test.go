// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func TestNew(t *testing.T) {
	first, second := New(), New()

	assert.NotEqual(t, first, second)
	assert.Regexp(t, slugShape, first)
	assert.Len(t, first, 36)
	assert.Equal(t, byte('7'), first[14], "version nibble")
}

