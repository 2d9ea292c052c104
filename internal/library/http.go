// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/core/feed"
	"github.com/taibuivan/mangashelf/internal/core/reading"
	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
	"github.com/taibuivan/mangashelf/internal/platform/validate"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for collections, bookmarks and feeds.
type Handler struct {
	service *Service
	tracker *Tracker
}

// NewHandler constructs a collection [Handler].
func NewHandler(service *Service, tracker *Tracker) *Handler {
	return &Handler{service: service, tracker: tracker}
}

// Routes returns a [chi.Router] for everything under /collections.
//
// The slug is the only credential; anyone who knows it may read and modify
// the collection.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.createCollection)

	router.Route("/{slug}", func(collection chi.Router) {
		collection.Get("/", handler.getCollection)
		collection.Get("/feed", handler.getFeed)

		// ## Bookmarks
		collection.Post("/bookmarks", handler.addBookmark)
		collection.Delete("/bookmarks/{seriesID}", handler.removeBookmark)
		collection.Post("/bookmarks/{seriesID}/read", handler.markAsRead)
		collection.Get("/bookmarks/{seriesID}/next", handler.nextChapter)
	})

	return router
}

// # Collection Endpoints

// createCollectionRequest is the optional body of POST /collections.
type createCollectionRequest struct {
	Slug string `json:"slug"`
}

/*
POST /collections.

Description: Creates an empty collection. Without a slug one is generated.

Request:
  - slug: string (optional)

Response:
  - 201: Collection
  - 400: VALIDATION_ERROR
  - 409: CONFLICT: Slug already taken
*/
func (handler *Handler) createCollection(writer http.ResponseWriter, request *http.Request) {
	var input createCollectionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collection, err := handler.service.CreateCollection(request.Context(), input.Slug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, collection)
}

/*
GET /collections/{slug}.

Response:
  - 200: Collection with bookmarks in insertion order
  - 404: NOT_FOUND
*/
func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	collection, err := handler.service.GetCollection(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, collection)
}

/*
GET /collections/{slug}/feed.

Description: Renders the collection as a reader feed.

Request:
  - view: string (now-reading, library; default now-reading)
  - page, limit: int (library view only)

Response:
  - 200: []Item (now-reading) or paginated []Item (library)
*/
func (handler *Handler) getFeed(writer http.ResponseWriter, request *http.Request) {
	view := requestutil.Query(request, "view")
	if view == "" {
		view = feed.ViewNowReading
	}

	if err := new(validate.Validator).
		OneOf("view", view, feed.ViewNowReading, feed.ViewLibrary).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	items, err := handler.service.Feed(request.Context(), requestutil.Param(request, "slug"), view)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if view != feed.ViewLibrary {
		respond.OK(writer, items)
		return
	}

	// Library pages are cut from the fully sorted list
	params := pagination.FromRequest(request)
	start, end := params.Bounds(len(items))

	respond.Paginated(writer, items[start:end], pagination.NewMeta(params.Page, params.Limit, len(items)))
}

// # Bookmark Endpoints

// addBookmarkRequest defines the inbound JSON schema for bookmarking a series.
type addBookmarkRequest struct {
	URL    string  `json:"url"`
	LinkTo *string `json:"linkTo"`
}

/*
POST /collections/{slug}/bookmarks.

Request:
  - url: string (series page on a supported site)
  - linkTo: string (optional external reader link)

Response:
  - 201: Bookmark
  - 409: CONFLICT: Series already bookmarked
  - 422: UNPROCESSABLE: Unsupported URL
  - 502: BAD_GATEWAY: Content source unavailable
  - 504: GATEWAY_TIMEOUT: Content source too slow
*/
func (handler *Handler) addBookmark(writer http.ResponseWriter, request *http.Request) {
	var input addBookmarkRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddBookmark(request.Context(), requestutil.Param(request, "slug"), AddBookmarkInput{
		URL:    input.URL,
		LinkTo: input.LinkTo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /collections/{slug}/bookmarks/{seriesID}.

Response:
  - 204: Removed
  - 404: NOT_FOUND
*/
func (handler *Handler) removeBookmark(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.RemoveBookmark(
		request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "seriesID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// markAsReadRequest defines the inbound JSON schema for moving a read marker.
type markAsReadRequest struct {
	ChapterID string `json:"chapterId"`
}

/*
POST /collections/{slug}/bookmarks/{seriesID}/read.

Description: Moves the read marker. The response is sent once the chapter is
validated; storage is updated in the background.

Response:
  - 202: Bookmark as it will be stored
  - 400: VALIDATION_ERROR: Chapter is not part of the series
  - 404: NOT_FOUND
*/
func (handler *Handler) markAsRead(writer http.ResponseWriter, request *http.Request) {
	var input markAsReadRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.tracker.MarkAsRead(
		request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "seriesID"),
		input.ChapterID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, updated)
}

/*
GET /collections/{slug}/bookmarks/{seriesID}/next.

Response:
  - 200: Chapter to open
  - 204: The series has no chapters
  - 404: NOT_FOUND
*/
func (handler *Handler) nextChapter(writer http.ResponseWriter, request *http.Request) {
	chapter, err := handler.service.NextChapter(
		request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "seriesID"),
	)
	if errors.Is(err, reading.ErrEmptySeries) {
		respond.NoContent(writer)
		return
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapter)
}
