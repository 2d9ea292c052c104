// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, content source) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the mangashelf API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Content source (external scraping service)
	SourceURL     string        `env:"SOURCE_URL,required"`
	SourceTimeout time.Duration `env:"SOURCE_TIMEOUT" envDefault:"10s"`

	// SeriesCacheTTL bounds how long a fetched series is served from cache.
	SeriesCacheTTL time.Duration `env:"SERIES_CACHE_TTL" envDefault:"600s"`
	// SeriesCacheSize is the number of series kept in the in-process cache.
	SeriesCacheSize int `env:"SERIES_CACHE_SIZE" envDefault:"1024"`

	// CollectionCacheTTL bounds how long a collection is served from cache.
	CollectionCacheTTL time.Duration `env:"COLLECTION_CACHE_TTL" envDefault:"600s"`

	// FeedFetchConcurrency caps parallel series fetches while building one feed.
	FeedFetchConcurrency int `env:"FEED_FETCH_CONCURRENCY" envDefault:"8"`

	// PersistTimeout bounds detached read-marker writes.
	PersistTimeout time.Duration `env:"PERSIST_TIMEOUT" envDefault:"5s"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.FeedFetchConcurrency < 1 {
		return nil, fmt.Errorf("config: FEED_FETCH_CONCURRENCY must be positive, got %d", cfg.FeedFetchConcurrency)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the additional CORS origins configured via EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	return splitOrigins(c.ExtraOrigins)
}

// splitOrigins parses a comma-separated origin list, dropping blanks.
func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
