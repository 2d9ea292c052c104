// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Slugs name collections (e.g., "mon-etagere" from "Mon Étagère"). The slug is
// also the collection's only credential, so normalisation must be stable.
package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Accents are folded away (é → e). Every run of characters that is not an
// ASCII letter or digit becomes a single hyphen, and hyphens never lead or
// trail. Letters with no ASCII decomposition (ß, ø) act as separators.
func From(s string) string {
	// Chained transformers are stateful, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}

	var builder strings.Builder
	separate := false

	for _, r := range strings.ToLower(folded) {
		if r >= utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			separate = true
			continue
		}

		if separate && builder.Len() > 0 {
			builder.WriteByte('-')
		}
		separate = false
		builder.WriteRune(r)
	}

	return builder.String()
}
