// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
)

// # Optimistic Read Tracking

/*
Tracker answers mark-as-read requests before the marker reaches storage.

The chapter is validated synchronously. The updated collection is then written
to the collection cache so the next feed render already reflects it, and the
database write runs on a detached context bounded by its own timeout.

  - Success: the cached entry is dropped once the write lands, so a reload
    that raced the write cannot keep serving the previous marker.
  - Failure: a failed write is logged and dropped. The cached entry is not
    rolled back and converges with storage when it expires.
  - Shutdown: [Tracker.Wait] blocks until every pending write has finished.
*/
type Tracker struct {
	service *Service
	timeout time.Duration
	now     func() time.Time
	pending sync.WaitGroup
}

// NewTracker constructs a [Tracker] whose background writes are bounded by timeout.
func NewTracker(service *Service, timeout time.Duration) *Tracker {
	return &Tracker{
		service: service,
		timeout: timeout,
		now:     time.Now,
	}
}

/*
MarkAsRead moves a bookmark's read marker optimistically.

Returns:
  - bookmark.Bookmark: The bookmark as it will be once persisted
  - error: Validation failures only; persistence errors are never reported here
*/
func (tracker *Tracker) MarkAsRead(ctx context.Context, slug, seriesID, chapterID string) (bookmark.Bookmark, error) {

	// ── 1. Synchronous Validation ─────────────────────────────────────────

	collection, current, err := tracker.service.ValidateRead(ctx, slug, seriesID, chapterID)
	if err != nil {
		return bookmark.Bookmark{}, err
	}

	updated := current.MarkRead(chapterID, tracker.now().UTC())

	// ── 2. Optimistic Cache Write ─────────────────────────────────────────

	// The loaded collection may be shared with a cache layer; mutate a copy.
	snapshot := &bookmark.Collection{
		Slug:      collection.Slug,
		CreatedAt: collection.CreatedAt,
		Bookmarks: collection.Bookmarks.Clone(),
	}
	snapshot.Bookmarks.Put(updated)
	tracker.service.cacheSet(ctx, snapshot)

	// ── 3. Detached Persistence ───────────────────────────────────────────

	persistCtx, cancel := ctxutil.Detach(ctx, tracker.timeout)
	at := *updated.LastReadAt

	tracker.pending.Add(1)
	go func() {
		defer tracker.pending.Done()
		defer cancel()

		if err := tracker.service.PersistRead(persistCtx, slug, seriesID, chapterID, at); err != nil {
			ctxutil.GetLogger(persistCtx).ErrorContext(persistCtx, "read_marker_persist_failed",
				slog.String("slug", slug),
				slog.String("series_id", seriesID),
				slog.String("chapter_id", chapterID),
				slog.Any("error", err),
			)
			return
		}
		tracker.service.cacheDelete(persistCtx, slug)
	}()

	return updated, nil
}

// Wait blocks until all background writes started so far have completed.
func (tracker *Tracker) Wait() {
	tracker.pending.Wait()
}
