// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package series defines the content model consumed by the bookmark tracker.

Series and chapters are produced by an external content source (a scraping
service) and are immutable from this service's point of view. This package
owns their shape, the composite identifier format, and the [Source] contract
used to fetch them.

# Identifiers

  - Series: "site:series" (e.g. "mangadex:a1c7c817").
  - Chapter: "site:series:chapter" (e.g. "mangadex:a1c7c817:0042").
*/
package series

import (
	"strings"
	"time"
)

// # Content Aggregate

// Series is a single manga title as reported by the content source.
type Series struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	CoverURL        string     `json:"coverUrl,omitempty"`
	SupportsReading bool       `json:"supportsReading"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Chapters        []*Chapter `json:"chapters"`
}

// Chapter is a single release of a [Series].
//
// Order is the publication index assigned by the source and is the only
// ordering key; CreatedAt is advisory and may collide or be zero.
type Chapter struct {
	ID            string    `json:"id"`
	SeriesID      string    `json:"seriesId"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"createdAt"`
	ChapterNumber *string   `json:"chapterNumber,omitempty"`
	VolumeNumber  *string   `json:"volumeNumber,omitempty"`
	Title         *string   `json:"title,omitempty"`
	URL           string    `json:"url,omitempty"`
}

// # Lookups

// Chapter returns the chapter with the given ID, or nil.
func (s *Series) Chapter(id string) *Chapter {
	for _, chapter := range s.Chapters {
		if chapter.ID == id {
			return chapter
		}
	}
	return nil
}

// HasChapter reports whether id names one of this series' chapters.
func (s *Series) HasChapter(id string) bool {
	return s.Chapter(id) != nil
}

// # Display

// Label renders a short human-readable chapter name such as
// "Vol. 3 Ch. 12 - The Return" or "Ch. 0".
//
// Optional parts are included whenever they are present, including "0";
// only a nil pointer counts as absent.
func (c *Chapter) Label() string {
	var parts []string

	if c.VolumeNumber != nil {
		parts = append(parts, "Vol. "+*c.VolumeNumber)
	}
	if c.ChapterNumber != nil {
		parts = append(parts, "Ch. "+*c.ChapterNumber)
	}

	label := strings.Join(parts, " ")

	if c.Title != nil {
		if label == "" {
			return *c.Title
		}
		return label + " - " + *c.Title
	}

	if label == "" {
		return c.ID
	}
	return label
}
