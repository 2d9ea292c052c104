// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bookmark defines collections and the bookmarks they own.

A [Collection] is identified only by its slug (there are no accounts; the slug
is the credential). Each [Bookmark] subscribes the collection to one series and
carries the reader's progress marker.

# Ordering

Bookmarks keep insertion order. Feed views rely on it as the stable tie-break,
so [Bookmarks] is an explicit ordered mapping rather than a plain map.
*/
package bookmark

import (
	"encoding/json"
	"time"
)

// # Bookmark Entity

// Bookmark is a collection's subscription to a series plus read progress.
//
// ID equals the series ID. LastReadChapterID is nil until the first chapter is
// marked as read.
type Bookmark struct {
	ID                string     `json:"id"`
	SeriesURL         string     `json:"seriesUrl"`
	LastReadChapterID *string    `json:"lastReadChapterId"`
	LastReadAt        *time.Time `json:"lastReadAt"`
	LinkTo            *string    `json:"linkTo,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// MarkRead returns a copy of b with the read marker moved to chapterID.
func (b Bookmark) MarkRead(chapterID string, at time.Time) Bookmark {
	b.LastReadChapterID = &chapterID
	b.LastReadAt = &at
	return b
}

// # Collection Aggregate

// Collection is the set of bookmarks owned by one slug.
type Collection struct {
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	Bookmarks Bookmarks `json:"bookmarks"`
}

// # Ordered Mapping

// Bookmarks maps series IDs to bookmarks while preserving insertion order.
//
// The zero value is an empty, usable mapping. It is not safe for concurrent mutation.
type Bookmarks struct {
	items []Bookmark
	index map[string]int
}

// NewBookmarks builds a mapping from items in the given order. Later duplicates
// replace earlier ones in place.
func NewBookmarks(items ...Bookmark) Bookmarks {
	var bookmarks Bookmarks
	for _, item := range items {
		bookmarks.Put(item)
	}
	return bookmarks
}

// Len returns the number of bookmarks.
func (m *Bookmarks) Len() int {
	return len(m.items)
}

// Get returns the bookmark for seriesID.
func (m *Bookmarks) Get(seriesID string) (Bookmark, bool) {
	position, ok := m.index[seriesID]
	if !ok {
		return Bookmark{}, false
	}
	return m.items[position], true
}

// Put inserts item at the end, or replaces an existing bookmark in place.
func (m *Bookmarks) Put(item Bookmark) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	if position, ok := m.index[item.ID]; ok {
		m.items[position] = item
		return
	}

	m.index[item.ID] = len(m.items)
	m.items = append(m.items, item)
}

// Delete removes the bookmark for seriesID and reports whether it existed.
func (m *Bookmarks) Delete(seriesID string) bool {
	position, ok := m.index[seriesID]
	if !ok {
		return false
	}

	m.items = append(m.items[:position], m.items[position+1:]...)
	delete(m.index, seriesID)

	for i := position; i < len(m.items); i++ {
		m.index[m.items[i].ID] = i
	}
	return true
}

// All returns the bookmarks in insertion order. The slice is a copy.
func (m *Bookmarks) All() []Bookmark {
	out := make([]Bookmark, len(m.items))
	copy(out, m.items)
	return out
}

// Clone returns an independent copy of the mapping.
func (m *Bookmarks) Clone() Bookmarks {
	return NewBookmarks(m.items...)
}

// MarshalJSON encodes the mapping as an ordered array.
func (m Bookmarks) MarshalJSON() ([]byte, error) {
	if m.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.items)
}

// UnmarshalJSON decodes an ordered array.
func (m *Bookmarks) UnmarshalJSON(data []byte) error {
	var items []Bookmark
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*m = NewBookmarks(items...)
	return nil
}
