// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed projects bookmarks and their series into display-ready items and
orders them into the two reader views.

Items are derived on every request and never persisted.

# Views

  - Now Reading: items with unread chapters, new releases first.
  - Library: every item, alphabetical by series title.
*/
package feed

import (
	"encoding/json"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/core/reading"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/pkg/slice"
)

// View names accepted by the feed endpoint.
const (
	ViewNowReading = "now-reading"
	ViewLibrary    = "library"
)

// # Feed Item

// Item is one bookmark joined with its series data.
type Item struct {
	Series            *series.Series
	Chapters          []*series.Chapter // most recent first
	IsCaughtUp        bool
	IsNewRelease      bool
	UnreadCount       int
	LastReadChapterID *string
	LinkTo            *string
	Next              *series.Chapter // nil only when the series has no chapters
}

// seriesHeader is the series without its chapter list, which Item already carries.
type seriesHeader struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	CoverURL        string    `json:"coverUrl,omitempty"`
	SupportsReading bool      `json:"supportsReading"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MarshalJSON emits the series header once and the ordered chapters alongside.
func (item Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Series            seriesHeader      `json:"series"`
		Chapters          []*series.Chapter `json:"chapters"`
		IsCaughtUp        bool              `json:"isCaughtUp"`
		IsNewRelease      bool              `json:"isNewRelease"`
		UnreadCount       int               `json:"unreadCount"`
		LastReadChapterID *string           `json:"lastReadChapterId"`
		LinkTo            *string           `json:"linkTo,omitempty"`
		Next              *series.Chapter   `json:"next,omitempty"`
	}{
		Series: seriesHeader{
			ID:              item.Series.ID,
			Title:           item.Series.Title,
			URL:             item.Series.URL,
			CoverURL:        item.Series.CoverURL,
			SupportsReading: item.Series.SupportsReading,
			UpdatedAt:       item.Series.UpdatedAt,
		},
		Chapters:          item.Chapters,
		IsCaughtUp:        item.IsCaughtUp,
		IsNewRelease:      item.IsNewRelease,
		UnreadCount:       item.UnreadCount,
		LastReadChapterID: item.LastReadChapterID,
		LinkTo:            item.LinkTo,
		Next:              item.Next,
	})
}

// # Projection

// Project joins a bookmark with its series and chapters.
//
// Caught up means nothing is unread: the marker is the latest chapter, the
// marker is stale, or the series has no chapters. A new release is unread
// backlog whose next chapter appeared after the bookmark was last read (or
// created, if nothing was read yet).
func Project(b bookmark.Bookmark, s *series.Series, chapters []*series.Chapter) Item {
	ordered := reading.Order(chapters)
	partition := reading.Split(ordered, b.LastReadChapterID)
	next := reading.NextOrdered(ordered, partition)

	item := Item{
		Series:            s,
		Chapters:          ordered,
		IsCaughtUp:        len(partition.Unread) == 0,
		UnreadCount:       len(partition.Unread),
		LastReadChapterID: b.LastReadChapterID,
		LinkTo:            b.LinkTo,
		Next:              next,
	}

	if !item.IsCaughtUp && next != nil {
		reference := b.CreatedAt
		if b.LastReadAt != nil {
			reference = *b.LastReadAt
		}
		item.IsNewRelease = !reference.IsZero() && !next.CreatedAt.IsZero() && next.CreatedAt.After(reference)
	}

	return item
}

// Build projects every bookmark whose series is present in loaded, in bookmark
// order. Bookmarks with no loaded series are skipped rather than emitted partially.
func Build(bookmarks []bookmark.Bookmark, loaded map[string]*series.Series) []Item {
	items := make([]Item, 0, len(bookmarks))
	for _, b := range bookmarks {
		s, ok := loaded[b.ID]
		if !ok || s == nil {
			continue
		}
		items = append(items, Project(b, s, s.Chapters))
	}
	return items
}

// # Views

// NowReading keeps items with unread chapters and moves new releases to the
// front. Relative order is otherwise preserved; there is no secondary key so
// polling does not reshuffle the list.
func NowReading(items []Item) []Item {
	active := slice.Filter(items, func(item Item) bool { return !item.IsCaughtUp })

	slices.SortStableFunc(active, func(a, b Item) int {
		switch {
		case a.IsNewRelease == b.IsNewRelease:
			return 0
		case a.IsNewRelease:
			return -1
		default:
			return 1
		}
	})
	return active
}

// Library returns every item sorted by series title using locale-aware
// collation. Titles are compared, never rewritten.
func Library(items []Item) []Item {
	sorted := append(make([]Item, 0, len(items)), items...)
	collator := collate.New(language.Und)

	slices.SortStableFunc(sorted, func(a, b Item) int {
		return collator.CompareString(a.Series.Title, b.Series.Title)
	})
	return sorted
}

// Select applies the named view. Unknown names fall back to Now Reading.
func Select(view string, items []Item) []Item {
	if view == ViewLibrary {
		return Library(items)
	}
	return NowReading(items)
}
