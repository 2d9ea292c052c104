// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

var (
	day = func(n int) time.Time { return time.Date(2026, 1, n, 0, 0, 0, 0, time.UTC) }

	errRedisDown = errors.New("redis down")
)

// # Repository Fake

// memoryRepository is an in-memory [CollectionRepository].
//
// markGate, when set, blocks MarkAsRead until it is closed.
type memoryRepository struct {
	mu          sync.Mutex
	collections map[string]*bookmark.Collection
	markErr     error
	markGate    chan struct{}
	markCalls   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{collections: map[string]*bookmark.Collection{}}
}

func (repository *memoryRepository) CreateCollection(_ context.Context, slug string) (*bookmark.Collection, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.collections[slug]; exists {
		return nil, apperr.Conflict("Collection slug is already taken")
	}
	repository.collections[slug] = &bookmark.Collection{Slug: slug, CreatedAt: day(1)}
	return &bookmark.Collection{Slug: slug, CreatedAt: day(1)}, nil
}

func (repository *memoryRepository) FindCollection(_ context.Context, slug string) (*bookmark.Collection, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.collections[slug]
	if !ok {
		return nil, apperr.NotFound("Collection")
	}
	return &bookmark.Collection{Slug: stored.Slug, CreatedAt: stored.CreatedAt, Bookmarks: stored.Bookmarks.Clone()}, nil
}

func (repository *memoryRepository) AddBookmark(_ context.Context, slug string, item bookmark.Bookmark) (bookmark.Bookmark, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.collections[slug]
	if !ok {
		return bookmark.Bookmark{}, apperr.NotFound("Referenced resource")
	}
	if _, exists := stored.Bookmarks.Get(item.ID); exists {
		return bookmark.Bookmark{}, apperr.Conflict("Bookmark already exists")
	}
	item.CreatedAt = day(2)
	stored.Bookmarks.Put(item)
	return item, nil
}

func (repository *memoryRepository) RemoveBookmark(_ context.Context, slug, seriesID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.collections[slug]
	if !ok || !stored.Bookmarks.Delete(seriesID) {
		return apperr.NotFound("Bookmark")
	}
	return nil
}

func (repository *memoryRepository) MarkAsRead(ctx context.Context, slug, seriesID, chapterID string, at time.Time) error {
	if repository.markGate != nil {
		select {
		case <-repository.markGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.markCalls++
	if repository.markErr != nil {
		return repository.markErr
	}

	stored, ok := repository.collections[slug]
	if !ok {
		return apperr.NotFound("Bookmark")
	}
	current, ok := stored.Bookmarks.Get(seriesID)
	if !ok {
		return apperr.NotFound("Bookmark")
	}
	if current.LastReadAt != nil && current.LastReadAt.After(at) {
		return nil
	}
	stored.Bookmarks.Put(current.MarkRead(chapterID, at))
	return nil
}

// stored returns the persisted bookmark, bypassing every cache.
func (repository *memoryRepository) stored(slug, seriesID string) (bookmark.Bookmark, bool) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	collection, ok := repository.collections[slug]
	if !ok {
		return bookmark.Bookmark{}, false
	}
	return collection.Bookmarks.Get(seriesID)
}

// # Cache Fake

// memoryCache is an in-memory [CollectionCache] that round-trips through JSON
// like the Redis implementation does.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failing bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (cache *memoryCache) Get(_ context.Context, slug string) (*bookmark.Collection, bool, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.failing {
		return nil, false, errRedisDown
	}
	raw, ok := cache.entries[slug]
	if !ok {
		return nil, false, nil
	}

	var decoded bookmark.Collection
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, false, err
	}
	return &decoded, true, nil
}

func (cache *memoryCache) Set(_ context.Context, collection *bookmark.Collection) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.failing {
		return errRedisDown
	}
	raw, err := json.Marshal(collection)
	if err != nil {
		return err
	}
	cache.entries[collection.Slug] = raw
	return nil
}

func (cache *memoryCache) Delete(_ context.Context, slug string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	if cache.failing {
		return errRedisDown
	}
	delete(cache.entries, slug)
	return nil
}

func (cache *memoryCache) has(slug string) bool {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	_, ok := cache.entries[slug]
	return ok
}

// # Source Fake

// stubSource serves a fixed catalogue. URLs resolve through byURL; failing
// series IDs return a gateway error.
type stubSource struct {
	catalog map[string]*series.Series
	byURL   map[string]string
	failing map[string]bool
}

func (source *stubSource) Series(_ context.Context, id string) (*series.Series, error) {
	if source.failing[id] {
		return nil, apperr.BadGateway("Content source is unavailable", errors.New("connection refused"))
	}
	found, ok := source.catalog[id]
	if !ok {
		return nil, apperr.NotFound("Series")
	}
	return found, nil
}

func (source *stubSource) Resolve(ctx context.Context, url string) (*series.Series, error) {
	id, ok := source.byURL[url]
	if !ok {
		return nil, apperr.Unprocessable("Series URL is not supported")
	}
	return source.Series(ctx, id)
}

// refreshingSource serves an outdated snapshot of a series until it is
// invalidated, like a cache that has not seen the latest chapter.
type refreshingSource struct {
	*stubSource
	stale       map[string]*series.Series
	invalidated []string
}

func (source *refreshingSource) Series(ctx context.Context, id string) (*series.Series, error) {
	if outdated, ok := source.stale[id]; ok {
		return outdated, nil
	}
	return source.stubSource.Series(ctx, id)
}

func (source *refreshingSource) Invalidate(_ context.Context, id string) {
	source.invalidated = append(source.invalidated, id)
	delete(source.stale, id)
}

// # Fixtures

func fixtureSeries(id, title string, createdAt ...time.Time) *series.Series {
	content := &series.Series{ID: id, Title: title, URL: "https://example.com/" + id}
	for i, at := range createdAt {
		content.Chapters = append(content.Chapters, &series.Chapter{
			ID:        id + ":" + string(rune('a'+i)),
			SeriesID:  id,
			Order:     i + 1,
			CreatedAt: at,
		})
	}
	return content
}

// fixture wires a service over fakes with two bookmarked series and one empty one.
type fixture struct {
	repository *memoryRepository
	cache      *memoryCache
	source     *stubSource
	service    *Service
}

func newFixture() *fixture {
	source := &stubSource{
		catalog: map[string]*series.Series{
			"md:berserk":  fixtureSeries("md:berserk", "Berserk", day(1), day(2), day(3)),
			"md:aria":     fixtureSeries("md:aria", "Aria", day(1), day(10)),
			"md:empty":    fixtureSeries("md:empty", "Empty"),
			"md:vagabond": fixtureSeries("md:vagabond", "Vagabond", day(1)),
		},
		byURL: map[string]string{
			"https://example.com/md:berserk":  "md:berserk",
			"https://example.com/md:aria":     "md:aria",
			"https://example.com/md:empty":    "md:empty",
			"https://example.com/md:vagabond": "md:vagabond",
		},
		failing: map[string]bool{},
	}

	repository := newMemoryRepository()
	repository.collections["shelf"] = &bookmark.Collection{
		Slug:      "shelf",
		CreatedAt: day(1),
		Bookmarks: bookmark.NewBookmarks(
			bookmark.Bookmark{ID: "md:berserk", SeriesURL: "https://example.com/md:berserk", CreatedAt: day(1)}.MarkRead("md:berserk:a", day(5)),
			bookmark.Bookmark{ID: "md:aria", SeriesURL: "https://example.com/md:aria", CreatedAt: day(1)}.MarkRead("md:aria:a", day(5)),
			bookmark.Bookmark{ID: "md:empty", SeriesURL: "https://example.com/md:empty", CreatedAt: day(1)},
		),
	}

	cache := newMemoryCache()
	service := NewService(repository, cache, source, 2)
	service.now = func() time.Time { return day(20) }

	return &fixture{repository: repository, cache: cache, source: source, service: service}
}
