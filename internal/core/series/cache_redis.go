// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

// RedisCache implements [RemoteCache] using Redis string keys with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed series cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

/*
Get loads a cached series.

Returns:
  - *Series: Decoded series on a hit
  - bool: false on a miss (redis.Nil)
  - error: Connectivity or decoding failures
*/
func (cache *RedisCache) Get(ctx context.Context, id string) (*Series, bool, error) {
	raw, err := cache.client.Get(ctx, constants.RedisPrefixSeries+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_series_get_failed: %w", err)
	}

	var cached Series
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false, fmt.Errorf("redis_series_decode_failed: %w", err)
	}

	return &cached, true, nil
}

// Set stores a series with the configured TTL.
func (cache *RedisCache) Set(ctx context.Context, series *Series) error {
	raw, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("redis_series_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, constants.RedisPrefixSeries+series.ID, raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_series_set_failed: %w", err)
	}

	return nil
}

// Delete removes a cached series.
func (cache *RedisCache) Delete(ctx context.Context, id string) error {
	if err := cache.client.Del(ctx, constants.RedisPrefixSeries+id).Err(); err != nil {
		return fmt.Errorf("redis_series_delete_failed: %w", err)
	}
	return nil
}
