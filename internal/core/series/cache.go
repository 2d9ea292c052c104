// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// # Shared Cache Contract

// RemoteCache is the shared (cross-process) series cache.
type RemoteCache interface {
	// Get returns the cached series; found is false on a miss.
	Get(ctx context.Context, id string) (series *Series, found bool, err error)
	// Set stores the series under its ID.
	Set(ctx context.Context, series *Series) error
	// Delete drops the series with the given ID.
	Delete(ctx context.Context, id string) error
}

// # Cached Source

// CachedSource decorates a [Source] with an in-process LRU and a shared remote cache.
//
// Lookup order is LRU, remote, then the wrapped source. Remote cache faults are
// logged and bypassed so a Redis outage degrades to direct fetches.
type CachedSource struct {
	next   Source
	local  *expirable.LRU[string, *Series]
	remote RemoteCache
	logger *slog.Logger
}

// NewCachedSource constructs a [CachedSource]. remote may be nil.
func NewCachedSource(next Source, remote RemoteCache, size int, ttl time.Duration, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		next:   next,
		local:  expirable.NewLRU[string, *Series](size, nil, ttl),
		remote: remote,
		logger: logger,
	}
}

// Series implements [Source].
func (cache *CachedSource) Series(ctx context.Context, id string) (*Series, error) {

	// 1. In-process hit
	if cached, ok := cache.local.Get(id); ok {
		return cached, nil
	}

	// 2. Shared cache hit
	if cache.remote != nil {
		cached, found, err := cache.remote.Get(ctx, id)
		if err != nil {
			cache.logger.WarnContext(ctx, "series_cache_read_failed", slog.String("series_id", id), slog.Any("error", err))
		} else if found {
			cache.local.Add(id, cached)
			return cached, nil
		}
	}

	// 3. Fetch from the collaborator
	fetched, err := cache.next.Series(ctx, id)
	if err != nil {
		return nil, err
	}

	cache.store(ctx, fetched)
	return fetched, nil
}

// Resolve implements [Source]. URL lookups always reach the collaborator; the
// resolved series is cached by ID for subsequent reads.
func (cache *CachedSource) Resolve(ctx context.Context, url string) (*Series, error) {
	resolved, err := cache.next.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	cache.store(ctx, resolved)
	return resolved, nil
}

// Invalidate drops a series from both cache levels so the next lookup reaches
// the collaborator.
func (cache *CachedSource) Invalidate(ctx context.Context, id string) {
	cache.local.Remove(id)

	if cache.remote == nil {
		return
	}
	if err := cache.remote.Delete(ctx, id); err != nil {
		cache.logger.WarnContext(ctx, "series_cache_delete_failed", slog.String("series_id", id), slog.Any("error", err))
	}
}

func (cache *CachedSource) store(ctx context.Context, series *Series) {
	cache.local.Add(series.ID, series)

	if cache.remote == nil {
		return
	}
	if err := cache.remote.Set(ctx, series); err != nil {
		cache.logger.WarnContext(ctx, "series_cache_write_failed", slog.String("series_id", series.ID), slog.Any("error", err))
	}
}
