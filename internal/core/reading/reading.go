// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reading decides read/unread state for a bookmarked series.

Given a series' chapter list and a bookmark's last-read marker it answers three
questions: in what order are the chapters, which of them are unread, and which
chapter should "continue reading" open.

# Guarantees

  - Pure: no I/O, no mutation of inputs; every function returns fresh slices.
  - Total: every well-formed input has an answer. The only error is
    [ErrEmptySeries] from [Next].
  - Ordering uses the source-assigned publication index, never timestamps.
*/
package reading

import (
	"cmp"
	"errors"
	"slices"

	"github.com/taibuivan/mangashelf/internal/core/series"
)

// ErrEmptySeries is returned by [Next] when there is no chapter to open.
// Callers treat it as "no action".
var ErrEmptySeries = errors.New("reading: series has no chapters")

// # Chapter Ordering

// Order returns the chapters most recent first, by descending Order.
// Chapters sharing an Order keep their relative input order. The result is
// never nil, so it encodes as an empty JSON array.
func Order(chapters []*series.Chapter) []*series.Chapter {
	ordered := append(make([]*series.Chapter, 0, len(chapters)), chapters...)
	slices.SortStableFunc(ordered, func(a, b *series.Chapter) int {
		return cmp.Compare(b.Order, a.Order)
	})
	return ordered
}

// # Read-State Partition

// Partition splits an ordered chapter list around a last-read marker.
type Partition struct {
	// Read holds the matched chapter and everything older, most recent first.
	Read []*series.Chapter
	// Unread holds every chapter newer than the marker, most recent first.
	Unread []*series.Chapter
	// Stale is set when the marker names no chapter in the list.
	Stale bool
}

// Split partitions ordered (most recent first, as returned by [Order]).
//
//   - nil marker: everything is unread.
//   - matched marker: chapters before it are unread, it and the rest are read.
//   - unknown marker: nothing is unread. A dangling reference is treated as
//     caught up rather than resurfacing the whole series.
func Split(ordered []*series.Chapter, lastReadChapterID *string) Partition {
	if lastReadChapterID == nil {
		return Partition{
			Read:   []*series.Chapter{},
			Unread: slices.Clone(ordered),
		}
	}

	index := slices.IndexFunc(ordered, func(chapter *series.Chapter) bool {
		return chapter.ID == *lastReadChapterID
	})

	if index < 0 {
		return Partition{
			Read:   slices.Clone(ordered),
			Unread: []*series.Chapter{},
			Stale:  true,
		}
	}

	return Partition{
		Read:   slices.Clone(ordered[index:]),
		Unread: slices.Clone(ordered[:index]),
	}
}

// # Next-Chapter Selection

// Next picks the chapter a "continue reading" action opens.
//
// The oldest unread chapter wins; when nothing is unread the most recent
// chapter is returned instead. chapters may be in any order.
func Next(chapters []*series.Chapter, lastReadChapterID *string) (*series.Chapter, error) {
	if len(chapters) == 0 {
		return nil, ErrEmptySeries
	}

	ordered := Order(chapters)
	return nextFromOrdered(ordered, Split(ordered, lastReadChapterID)), nil
}

// NextOrdered is [Next] for callers that already hold the ordered list and its
// partition. It returns nil when ordered is empty.
func NextOrdered(ordered []*series.Chapter, partition Partition) *series.Chapter {
	if len(ordered) == 0 {
		return nil
	}
	return nextFromOrdered(ordered, partition)
}

func nextFromOrdered(ordered []*series.Chapter, partition Partition) *series.Chapter {
	if n := len(partition.Unread); n > 0 {
		return partition.Unread[n-1]
	}
	return ordered[0]
}
