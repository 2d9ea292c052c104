// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/core/feed"
	"github.com/taibuivan/mangashelf/internal/core/reading"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/slug"
	"github.com/taibuivan/mangashelf/pkg/uuid"
)

// refresher is implemented by sources that can drop a cached series.
type refresher interface {
	Invalidate(ctx context.Context, id string)
}

// Slug length bounds for collections.
const (
	minSlugLength = 3
	maxSlugLength = 64
)

// Service implements the collection, bookmark and feed use cases.
//
// # Caching
//
// Collections are read cache-aside through [CollectionCache]. Structural
// changes (add/remove bookmark) drop the entry; mark-as-read overwrites it.
// Cache faults are logged and never fail a request.
type Service struct {
	repository       CollectionRepository
	cache            CollectionCache
	source           series.Source
	fetchConcurrency int
	now              func() time.Time
}

// NewService constructs a [Service]. cache may be nil.
func NewService(repository CollectionRepository, cache CollectionCache, source series.Source, fetchConcurrency int) *Service {
	if fetchConcurrency < 1 {
		fetchConcurrency = 1
	}
	return &Service{
		repository:       repository,
		cache:            cache,
		source:           source,
		fetchConcurrency: fetchConcurrency,
		now:              time.Now,
	}
}

// # Collections

/*
CreateCollection creates an empty collection.

Description: A requested slug is normalised (accents stripped, lowercased,
hyphenated). An empty request gets a generated, unguessable slug.

Returns:
  - *bookmark.Collection: The stored collection
  - error: VALIDATION_ERROR for an unusable slug, CONFLICT if it is taken
*/
func (service *Service) CreateCollection(ctx context.Context, requested string) (*bookmark.Collection, error) {
	var candidate string
	if strings.TrimSpace(requested) == "" {
		candidate = uuid.New()
	} else {
		candidate = slug.From(requested)
	}

	if err := new(validate.Validator).
		Slug("slug", candidate).
		MinLen("slug", candidate, minSlugLength).
		MaxLen("slug", candidate, maxSlugLength).
		Err(); err != nil {
		return nil, err
	}

	collection, err := service.repository.CreateCollection(ctx, candidate)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "collection_created", slog.String("slug", collection.Slug))
	return collection, nil
}

/*
GetCollection returns a collection with its bookmarks in insertion order.

Returns:
  - error: NOT_FOUND if no collection has that slug
*/
func (service *Service) GetCollection(ctx context.Context, slug string) (*bookmark.Collection, error) {

	// ── 1. Cache ──────────────────────────────────────────────────────────

	if service.cache != nil {
		cached, found, err := service.cache.Get(ctx, slug)
		if err != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "collection_cache_read_failed", slog.String("slug", slug), slog.Any("error", err))
		} else if found {
			return cached, nil
		}
	}

	// ── 2. Storage ────────────────────────────────────────────────────────

	collection, err := service.repository.FindCollection(ctx, slug)
	if err != nil {
		return nil, err
	}

	service.cacheSet(ctx, collection)
	return collection, nil
}

// # Bookmarks

// AddBookmarkInput holds the data needed to subscribe a collection to a series.
type AddBookmarkInput struct {
	URL    string
	LinkTo *string
}

/*
AddBookmark resolves a series URL through the content source and appends a
bookmark for it.

Returns:
  - bookmark.Bookmark: The stored bookmark
  - error: NOT_FOUND (collection or series), UNPROCESSABLE (unsupported URL),
    CONFLICT (already bookmarked), BAD_GATEWAY or GATEWAY_TIMEOUT (source)
*/
func (service *Service) AddBookmark(ctx context.Context, slug string, input AddBookmarkInput) (bookmark.Bookmark, error) {

	// ── 1. Boundary Validation ────────────────────────────────────────────

	if err := new(validate.Validator).
		Required("url", input.URL).
		URL("url", input.URL).
		OptionalURL("linkTo", input.LinkTo).
		Err(); err != nil {
		return bookmark.Bookmark{}, err
	}

	collection, err := service.GetCollection(ctx, slug)
	if err != nil {
		return bookmark.Bookmark{}, err
	}

	// ── 2. Resolution ─────────────────────────────────────────────────────

	resolved, err := service.source.Resolve(ctx, input.URL)
	if err != nil {
		return bookmark.Bookmark{}, err
	}

	if _, exists := collection.Bookmarks.Get(resolved.ID); exists {
		return bookmark.Bookmark{}, apperr.Conflict("Series is already bookmarked")
	}

	seriesURL := resolved.URL
	if seriesURL == "" {
		seriesURL = input.URL
	}

	// ── 3. Persistence ────────────────────────────────────────────────────

	stored, err := service.repository.AddBookmark(ctx, slug, bookmark.Bookmark{
		ID:        resolved.ID,
		SeriesURL: seriesURL,
		LinkTo:    input.LinkTo,
	})
	if err != nil {
		return bookmark.Bookmark{}, err
	}

	service.cacheDelete(ctx, slug)

	ctxutil.GetLogger(ctx).InfoContext(ctx, "bookmark_added",
		slog.String("slug", slug),
		slog.String("series_id", stored.ID),
	)
	return stored, nil
}

// RemoveBookmark deletes a bookmark from a collection.
func (service *Service) RemoveBookmark(ctx context.Context, slug, seriesID string) error {
	if err := service.repository.RemoveBookmark(ctx, slug, seriesID); err != nil {
		return err
	}

	service.cacheDelete(ctx, slug)
	return nil
}

// # Read Tracking

/*
ValidateRead checks that chapterID may become the read marker of a bookmark.

Description: The chapter ID must encode the bookmark's series, the bookmark
must exist, and the series as currently published must contain the chapter.

Returns:
  - *bookmark.Collection: The collection the bookmark belongs to
  - bookmark.Bookmark: The bookmark as currently stored
  - error: VALIDATION_ERROR, NOT_FOUND, or a content source failure
*/
func (service *Service) ValidateRead(ctx context.Context, slug, seriesID, chapterID string) (*bookmark.Collection, bookmark.Bookmark, error) {

	// ── 1. Identifier Shape ───────────────────────────────────────────────

	owner, parseErr := series.SeriesOf(chapterID)
	if err := new(validate.Validator).
		Required("chapterId", chapterID).
		Custom("chapterId", strings.TrimSpace(chapterID) != "" && parseErr != nil, "Must be a chapter identifier").
		Custom("chapterId", parseErr == nil && owner != seriesID, "Chapter does not belong to this series").
		Err(); err != nil {
		return nil, bookmark.Bookmark{}, err
	}

	// ── 2. Bookmark Lookup ────────────────────────────────────────────────

	collection, err := service.GetCollection(ctx, slug)
	if err != nil {
		return nil, bookmark.Bookmark{}, err
	}

	current, ok := collection.Bookmarks.Get(seriesID)
	if !ok {
		return nil, bookmark.Bookmark{}, apperr.NotFound("Bookmark")
	}

	// ── 3. Chapter Membership ─────────────────────────────────────────────

	content, err := service.source.Series(ctx, seriesID)
	if err != nil {
		return nil, bookmark.Bookmark{}, err
	}

	// A chapter published after the series was cached is fetched once more
	if cached, ok := service.source.(refresher); ok && !content.HasChapter(chapterID) {
		cached.Invalidate(ctx, seriesID)
		if content, err = service.source.Series(ctx, seriesID); err != nil {
			return nil, bookmark.Bookmark{}, err
		}
	}

	if !content.HasChapter(chapterID) {
		return nil, bookmark.Bookmark{}, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "chapterId",
			Message: "Chapter does not belong to this series",
		})
	}

	return collection, current, nil
}

// PersistRead writes a validated read marker to storage.
func (service *Service) PersistRead(ctx context.Context, slug, seriesID, chapterID string, at time.Time) error {
	return service.repository.MarkAsRead(ctx, slug, seriesID, chapterID, at)
}

/*
MarkAsRead validates and persists a read marker before returning.

Description: The synchronous counterpart of [Tracker.MarkAsRead], used where
there is no request to answer early (the operator CLI).
*/
func (service *Service) MarkAsRead(ctx context.Context, slug, seriesID, chapterID string) (bookmark.Bookmark, error) {
	_, current, err := service.ValidateRead(ctx, slug, seriesID, chapterID)
	if err != nil {
		return bookmark.Bookmark{}, err
	}

	updated := current.MarkRead(chapterID, service.now().UTC())
	if err := service.PersistRead(ctx, slug, seriesID, chapterID, *updated.LastReadAt); err != nil {
		return bookmark.Bookmark{}, err
	}

	service.cacheDelete(ctx, slug)
	return updated, nil
}

/*
NextChapter returns the chapter "continue reading" should open for a bookmark.

Returns:
  - error: [reading.ErrEmptySeries] when the series has no chapters
*/
func (service *Service) NextChapter(ctx context.Context, slug, seriesID string) (*series.Chapter, error) {
	collection, err := service.GetCollection(ctx, slug)
	if err != nil {
		return nil, err
	}

	current, ok := collection.Bookmarks.Get(seriesID)
	if !ok {
		return nil, apperr.NotFound("Bookmark")
	}

	content, err := service.source.Series(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	return reading.Next(content.Chapters, current.LastReadChapterID)
}

// # Feed

/*
Feed renders a collection through the named view.

Description: Series are fetched concurrently up to the configured limit. A
series that cannot be fetched is logged and left out of the feed rather than
failing it.
*/
func (service *Service) Feed(ctx context.Context, slug, view string) ([]feed.Item, error) {
	collection, err := service.GetCollection(ctx, slug)
	if err != nil {
		return nil, err
	}

	bookmarks := collection.Bookmarks.All()
	loaded, err := service.loadSeries(ctx, bookmarks)
	if err != nil {
		return nil, err
	}

	return feed.Select(view, feed.Build(bookmarks, loaded)), nil
}

// loadSeries fetches the series of every bookmark, keyed by series ID.
func (service *Service) loadSeries(ctx context.Context, bookmarks []bookmark.Bookmark) (map[string]*series.Series, error) {
	var (
		mu     sync.Mutex
		group  errgroup.Group
		loaded = make(map[string]*series.Series, len(bookmarks))
	)
	group.SetLimit(service.fetchConcurrency)

	for _, item := range bookmarks {
		group.Go(func() error {
			content, err := service.source.Series(ctx, item.ID)
			if err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "feed_series_unavailable",
					slog.String("series_id", item.ID),
					slog.Any("error", err),
				)
				return nil
			}

			mu.Lock()
			loaded[item.ID] = content
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	// A cancelled request is not a partial feed
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("library: feed aborted: %w", err)
	}

	return loaded, nil
}

// # Series Lookup

// Series returns a series with its chapters most recent first.
func (service *Service) Series(ctx context.Context, id string) (*series.Series, error) {
	if _, err := series.ParseSeriesID(id); err != nil {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "seriesId",
			Message: "Must be a series identifier",
		})
	}

	content, err := service.source.Series(ctx, id)
	if err != nil {
		return nil, err
	}
	return withOrderedChapters(content), nil
}

// ResolveSeries looks a series up by its public URL.
func (service *Service) ResolveSeries(ctx context.Context, url string) (*series.Series, error) {
	if err := new(validate.Validator).Required("url", url).URL("url", url).Err(); err != nil {
		return nil, err
	}

	content, err := service.source.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	return withOrderedChapters(content), nil
}

// withOrderedChapters returns a shallow copy whose chapter list is sorted.
// Cached series are shared, so the original is never reordered in place.
func withOrderedChapters(content *series.Series) *series.Series {
	ordered := *content
	ordered.Chapters = reading.Order(content.Chapters)
	return &ordered
}

// # Cache Helpers

func (service *Service) cacheSet(ctx context.Context, collection *bookmark.Collection) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Set(ctx, collection); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "collection_cache_write_failed", slog.String("slug", collection.Slug), slog.Any("error", err))
	}
}

func (service *Service) cacheDelete(ctx context.Context, slug string) {
	if service.cache == nil {
		return
	}
	if err := service.cache.Delete(ctx, slug); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "collection_cache_delete_failed", slog.String("slug", slug), slog.Any("error", err))
	}
}
