// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

// redisCollectionCache implements [CollectionCache] using Redis string keys.
type redisCollectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCollectionCache creates a Redis-backed collection cache.
func NewRedisCollectionCache(client *redis.Client, ttl time.Duration) CollectionCache {
	return &redisCollectionCache{client: client, ttl: ttl}
}

func collectionKey(slug string) string {
	return constants.RedisPrefixCollection + slug
}

// Get implements [CollectionCache].
func (cache *redisCollectionCache) Get(ctx context.Context, slug string) (*bookmark.Collection, bool, error) {
	raw, err := cache.client.Get(ctx, collectionKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_collection_get_failed: %w", err)
	}

	var cached bookmark.Collection
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("redis_collection_decode_failed: %w", err)
	}

	return &cached, true, nil
}

// Set implements [CollectionCache].
func (cache *redisCollectionCache) Set(ctx context.Context, collection *bookmark.Collection) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("redis_collection_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, collectionKey(collection.Slug), raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_collection_set_failed: %w", err)
	}

	return nil
}

// Delete implements [CollectionCache].
func (cache *redisCollectionCache) Delete(ctx context.Context, slug string) error {
	if err := cache.client.Del(ctx, collectionKey(slug)).Err(); err != nil {
		return fmt.Errorf("redis_collection_delete_failed: %w", err)
	}
	return nil
}
