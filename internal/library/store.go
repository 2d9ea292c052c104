// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"time"

	"github.com/taibuivan/mangashelf/internal/core/bookmark"
)

// # Collection & Bookmark Data Access

// CollectionRepository defines the persistence contract for collections and bookmarks.
type CollectionRepository interface {

	/*
		CreateCollection persists a new, empty collection.

		Returns:
		  - *bookmark.Collection: The stored collection
		  - error: apperr.Conflict if the slug is taken
	*/
	CreateCollection(ctx context.Context, slug string) (*bookmark.Collection, error)

	/*
		FindCollection returns a collection with its bookmarks in insertion order.

		Returns:
		  - *bookmark.Collection: Hydrated collection
		  - error: apperr.NotFound if missing
	*/
	FindCollection(ctx context.Context, slug string) (*bookmark.Collection, error)

	/*
		AddBookmark inserts a bookmark at the end of the collection.

		Returns:
		  - bookmark.Bookmark: The stored bookmark (CreatedAt filled)
		  - error: apperr.Conflict on duplicate series ID or series URL
	*/
	AddBookmark(ctx context.Context, slug string, item bookmark.Bookmark) (bookmark.Bookmark, error)

	/*
		RemoveBookmark deletes a bookmark.

		Returns:
		  - error: apperr.NotFound if the bookmark does not exist
	*/
	RemoveBookmark(ctx context.Context, slug, seriesID string) error

	/*
		MarkAsRead moves a bookmark's read marker forward.

		A marker older than the stored one is skipped without error.

		Returns:
		  - error: apperr.NotFound if the bookmark does not exist
	*/
	MarkAsRead(ctx context.Context, slug, seriesID, chapterID string, at time.Time) error
}

// # Collection Cache

// CollectionCache holds recently read collections so repeated feed renders do
// not hit the database. Entries expire after a configured TTL.
type CollectionCache interface {
	// Get returns the cached collection; found is false on a miss.
	Get(ctx context.Context, slug string) (collection *bookmark.Collection, found bool, err error)
	// Set stores the collection, replacing any previous entry.
	Set(ctx context.Context, collection *bookmark.Collection) error
	// Delete drops the entry for slug.
	Delete(ctx context.Context, slug string) error
}
