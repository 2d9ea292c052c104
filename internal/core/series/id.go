// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"errors"
	"strings"
)

// idSeparator joins the site, series and chapter segments of an identifier.
const idSeparator = ":"

// ErrInvalidID is returned when an identifier does not have the expected segments.
var ErrInvalidID = errors.New("series: malformed identifier")

// # Identifier Parsing

// ID is a decoded series or chapter identifier.
type ID struct {
	Site    string
	Series  string
	Chapter string // empty for series identifiers
}

// SeriesID returns the "site:series" form.
func (id ID) SeriesID() string {
	return id.Site + idSeparator + id.Series
}

// String returns the canonical encoded form.
func (id ID) String() string {
	if id.Chapter == "" {
		return id.SeriesID()
	}
	return id.SeriesID() + idSeparator + id.Chapter
}

// ParseSeriesID decodes a "site:series" identifier.
func ParseSeriesID(raw string) (ID, error) {
	parts := strings.Split(raw, idSeparator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return ID{}, ErrInvalidID
	}
	return ID{Site: parts[0], Series: parts[1]}, nil
}

// ParseChapterID decodes a "site:series:chapter" identifier.
//
// The chapter segment is everything after the second separator, so sources
// that use colons inside chapter keys still round-trip.
func ParseChapterID(raw string) (ID, error) {
	parts := strings.SplitN(raw, idSeparator, 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ID{}, ErrInvalidID
	}
	return ID{Site: parts[0], Series: parts[1], Chapter: parts[2]}, nil
}

// SeriesOf returns the series identifier a chapter identifier belongs to.
func SeriesOf(chapterID string) (string, error) {
	id, err := ParseChapterID(chapterID)
	if err != nil {
		return "", err
	}
	return id.SeriesID(), nil
}
