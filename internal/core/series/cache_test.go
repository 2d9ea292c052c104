// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

// countingSource records how often the collaborator is reached.
type countingSource struct {
	mu      sync.Mutex
	calls   int
	catalog map[string]*series.Series
}

func (source *countingSource) Series(_ context.Context, id string) (*series.Series, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	source.calls++
	if found, ok := source.catalog[id]; ok {
		return found, nil
	}
	return nil, apperr.NotFound("Series")
}

func (source *countingSource) Resolve(ctx context.Context, _ string) (*series.Series, error) {
	return source.Series(ctx, "md:abc")
}

// memoryRemote is an in-memory RemoteCache; failing makes every call error.
type memoryRemote struct {
	entries map[string]*series.Series
	failing bool
}

func (remote *memoryRemote) Get(_ context.Context, id string) (*series.Series, bool, error) {
	if remote.failing {
		return nil, false, errors.New("redis down")
	}
	found, ok := remote.entries[id]
	return found, ok, nil
}

func (remote *memoryRemote) Set(_ context.Context, s *series.Series) error {
	if remote.failing {
		return errors.New("redis down")
	}
	remote.entries[s.ID] = s
	return nil
}

func (remote *memoryRemote) Delete(_ context.Context, id string) error {
	if remote.failing {
		return errors.New("redis down")
	}
	delete(remote.entries, id)
	return nil
}

func newCatalog() map[string]*series.Series {
	return map[string]*series.Series{"md:abc": {ID: "md:abc", Title: "Dungeon Meshi"}}
}

/*
TestCachedSource_LocalHit verifies that a second read is served in-process.
*/
func TestCachedSource_LocalHit(t *testing.T) {
	next := &countingSource{catalog: newCatalog()}
	remote := &memoryRemote{entries: map[string]*series.Series{}}
	cache := series.NewCachedSource(next, remote, 16, time.Minute, discardLogger())

	for range 3 {
		got, err := cache.Series(context.Background(), "md:abc")
		require.NoError(t, err)
		assert.Equal(t, "Dungeon Meshi", got.Title)
	}

	assert.Equal(t, 1, next.calls)
	assert.Contains(t, remote.entries, "md:abc")
}

/*
TestCachedSource_RemoteHit verifies that the shared cache is consulted before the source.
*/
func TestCachedSource_RemoteHit(t *testing.T) {
	next := &countingSource{catalog: newCatalog()}
	remote := &memoryRemote{entries: map[string]*series.Series{"md:abc": {ID: "md:abc", Title: "From Redis"}}}
	cache := series.NewCachedSource(next, remote, 16, time.Minute, discardLogger())

	got, err := cache.Series(context.Background(), "md:abc")
	require.NoError(t, err)
	assert.Equal(t, "From Redis", got.Title)
	assert.Zero(t, next.calls)
}

/*
TestCachedSource_RemoteFailure verifies that Redis faults degrade to direct fetches.
*/
func TestCachedSource_RemoteFailure(t *testing.T) {
	next := &countingSource{catalog: newCatalog()}
	cache := series.NewCachedSource(next, &memoryRemote{failing: true}, 16, time.Minute, discardLogger())

	got, err := cache.Series(context.Background(), "md:abc")
	require.NoError(t, err)
	assert.Equal(t, "Dungeon Meshi", got.Title)
}

/*
TestCachedSource_ErrorsAreNotCached verifies that failures pass through unchanged.
*/
func TestCachedSource_ErrorsAreNotCached(t *testing.T) {
	next := &countingSource{catalog: newCatalog()}
	cache := series.NewCachedSource(next, nil, 16, time.Minute, discardLogger())

	for range 2 {
		_, err := cache.Series(context.Background(), "md:missing")
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	}
	assert.Equal(t, 2, next.calls)
}

/*
TestCachedSource_ResolveWarmsCache verifies that resolved series are cached by ID.
*/
func TestCachedSource_ResolveWarmsCache(t *testing.T) {
	next := &countingSource{catalog: newCatalog()}
	cache := series.NewCachedSource(next, nil, 16, time.Minute, discardLogger())

	_, err := cache.Resolve(context.Background(), "https://mangadex.org/title/abc")
	require.NoError(t, err)

	_, err = cache.Series(context.Background(), "md:abc")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)

	cache.Invalidate(context.Background(), "md:abc")
	_, err = cache.Series(context.Background(), "md:abc")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}
