// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package library provides collections of bookmarks, read tracking and the
feed endpoints built on top of them.

This file holds the PostgreSQL implementation of [CollectionRepository].
Statements are assembled with squirrel over the schema descriptors and run
through a pgx pool.

  - Insertion order: bookmarks carry a BIGSERIAL 'seq' and are always read back ORDER BY seq.
  - Uniqueness: (collection, series ID) and (collection, series URL) are enforced by
    constraints and surface as CONFLICT.
  - Mark-as-read: a single UPDATE; no read-modify-write.
*/
package library

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/database/schema"
	"github.com/taibuivan/mangashelf/internal/platform/dberr"
)

// psql builds statements with PostgreSQL-style placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// # PostgreSQL Repository

// collectionRepository implements the [CollectionRepository] interface using pgx.
type collectionRepository struct {
	pool *pgxpool.Pool
}

// NewCollectionRepository constructs a PostgreSQL backed collection store.
func NewCollectionRepository(pool *pgxpool.Pool) CollectionRepository {
	return &collectionRepository{pool: pool}
}

/*
CreateCollection inserts a collection row.

Returns:
  - error: CONFLICT when the slug already exists
*/
func (repository *collectionRepository) CreateCollection(ctx context.Context, slug string) (*bookmark.Collection, error) {
	query, args, err := psql.
		Insert(schema.LibraryCollection.Table).
		Columns(schema.LibraryCollection.Slug).
		Values(slug).
		Suffix("RETURNING " + schema.LibraryCollection.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to build collection insert: %w", err)
	}

	collection := &bookmark.Collection{Slug: slug}
	if err := repository.pool.QueryRow(ctx, query, args...).Scan(&collection.CreatedAt); err != nil {
		if dberr.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Collection slug is already taken")
		}
		return nil, dberr.Wrap(fmt.Errorf("postgres: failed to create collection: %w", err), "Collection")
	}

	return collection, nil
}

/*
FindCollection loads the collection header and its bookmarks.

Description: Two round-trips inside one read-only snapshot so the bookmark list
matches the header that was found.
*/
func (repository *collectionRepository) FindCollection(ctx context.Context, slug string) (*bookmark.Collection, error) {
	headerQuery, headerArgs, err := psql.
		Select(schema.LibraryCollection.Columns()...).
		From(schema.LibraryCollection.Table).
		Where(sq.Eq{schema.LibraryCollection.Slug: slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to build collection select: %w", err)
	}

	bookmarkQuery, bookmarkArgs, err := psql.
		Select(schema.LibraryBookmark.Columns()...).
		From(schema.LibraryBookmark.Table).
		Where(sq.Eq{schema.LibraryBookmark.CollectionSlug: slug}).
		OrderBy(schema.LibraryBookmark.Seq + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to build bookmark select: %w", err)
	}

	// Repeatable snapshot for header + rows
	tx, err := repository.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to begin collection read: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	collection := &bookmark.Collection{}
	if err := tx.QueryRow(ctx, headerQuery, headerArgs...).Scan(&collection.Slug, &collection.CreatedAt); err != nil {
		return nil, dberr.Wrap(err, "Collection")
	}

	rows, err := tx.Query(ctx, bookmarkQuery, bookmarkArgs...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	// Row Iteration and Entity Hydration
	var items []bookmark.Bookmark
	for rows.Next() {
		var item bookmark.Bookmark
		if err := rows.Scan(
			&item.ID,
			&item.SeriesURL,
			&item.LastReadChapterID,
			&item.LastReadAt,
			&item.LinkTo,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan bookmark: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate bookmarks: %w", err)
	}

	collection.Bookmarks = bookmark.NewBookmarks(items...)
	return collection, nil
}

/*
AddBookmark appends a bookmark to a collection.

Returns:
  - error: CONFLICT on duplicate series, NOT_FOUND for an unknown collection
*/
func (repository *collectionRepository) AddBookmark(ctx context.Context, slug string, item bookmark.Bookmark) (bookmark.Bookmark, error) {
	query, args, err := psql.
		Insert(schema.LibraryBookmark.Table).
		Columns(
			schema.LibraryBookmark.CollectionSlug,
			schema.LibraryBookmark.SeriesID,
			schema.LibraryBookmark.SeriesURL,
			schema.LibraryBookmark.LinkTo,
		).
		Values(slug, item.ID, item.SeriesURL, item.LinkTo).
		Suffix("RETURNING " + schema.LibraryBookmark.CreatedAt).
		ToSql()
	if err != nil {
		return bookmark.Bookmark{}, fmt.Errorf("postgres: failed to build bookmark insert: %w", err)
	}

	if err := repository.pool.QueryRow(ctx, query, args...).Scan(&item.CreatedAt); err != nil {
		return bookmark.Bookmark{}, dberr.Wrap(err, "Bookmark")
	}

	return item, nil
}

/*
RemoveBookmark deletes a bookmark row.
*/
func (repository *collectionRepository) RemoveBookmark(ctx context.Context, slug, seriesID string) error {
	query, args, err := psql.
		Delete(schema.LibraryBookmark.Table).
		Where(sq.Eq{
			schema.LibraryBookmark.CollectionSlug: slug,
			schema.LibraryBookmark.SeriesID:       seriesID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: failed to build bookmark delete: %w", err)
	}

	result, err := repository.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete bookmark: %w", err)
	}

	// Affected row verification
	if result.RowsAffected() == 0 {
		return apperr.NotFound("Bookmark")
	}

	return nil
}

/*
MarkAsRead moves the read marker of one bookmark.

Description: The marker only moves forward in time. A write whose timestamp is
older than the stored one is skipped and reported as success, so background
writes that land out of order cannot revert a newer marker. Validation that the
chapter belongs to the series happens in the service before this is called.
*/
func (repository *collectionRepository) MarkAsRead(ctx context.Context, slug, seriesID, chapterID string, at time.Time) error {
	key := sq.Eq{
		schema.LibraryBookmark.CollectionSlug: slug,
		schema.LibraryBookmark.SeriesID:       seriesID,
	}

	query, args, err := psql.
		Update(schema.LibraryBookmark.Table).
		Set(schema.LibraryBookmark.LastReadChapterID, chapterID).
		Set(schema.LibraryBookmark.LastReadAt, at).
		Set(schema.LibraryBookmark.UpdatedAt, sq.Expr("NOW()")).
		Where(key).
		Where(sq.Or{
			sq.Eq{schema.LibraryBookmark.LastReadAt: nil},
			sq.LtOrEq{schema.LibraryBookmark.LastReadAt: at},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: failed to build read marker update: %w", err)
	}

	result, err := repository.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to mark as read: %w", err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: either the bookmark is gone or a newer marker is stored.
	existsQuery, existsArgs, err := psql.
		Select("1").
		From(schema.LibraryBookmark.Table).
		Where(key).
		ToSql()
	if err != nil {
		return fmt.Errorf("postgres: failed to build bookmark lookup: %w", err)
	}

	var one int
	if err := repository.pool.QueryRow(ctx, existsQuery, existsArgs...).Scan(&one); err != nil {
		return dberr.Wrap(err, "Bookmark")
	}
	return nil
}
