// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command shelf is the operator CLI for mangashelf.
//
// It reads the same environment as the API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/mangashelf/internal/cli"
	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/library"
	"github.com/taibuivan/mangashelf/internal/platform/config"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/migration"
	pgstore "github.com/taibuivan/mangashelf/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangashelf/internal/platform/redis"
)

func main() {
	// Operator output goes to stdout; logs stay on stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})).
		With(slog.String("app", "shelf"))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Dependencies{
		OpenLibrary: func(ctx context.Context) (cli.Library, func(), error) {
			return openLibrary(ctx, log)
		},
		Migrate: func(direction string, steps int) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if direction == "down" {
				return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, steps, log)
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log)
		},
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openLibrary wires the library service exactly as the API server does,
// minus the HTTP layer.
func openLibrary(ctx context.Context, log *slog.Logger) (cli.Library, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	startupCtx, cancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer cancel()

	pool, err := pgstore.Connect(startupCtx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := redisstore.Connect(startupCtx, cfg.RedisURL, log)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	source := series.NewCachedSource(
		series.NewHTTPSource(cfg.SourceURL, cfg.SourceTimeout, log),
		series.NewRedisCache(rdb, cfg.SeriesCacheTTL),
		cfg.SeriesCacheSize,
		cfg.SeriesCacheTTL,
		log,
	)

	service := library.NewService(
		library.NewCollectionRepository(pool),
		library.NewRedisCollectionCache(rdb, cfg.CollectionCacheTTL),
		source,
		cfg.FeedFetchConcurrency,
	)

	release := func() {
		_ = rdb.Close()
		pool.Close()
	}
	return service, release, nil
}
