// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/mangashelf/internal/platform/request"
	"github.com/taibuivan/mangashelf/internal/platform/respond"
)

// SeriesHandler exposes read-only series lookups through the content source.
type SeriesHandler struct {
	service *Service
}

// NewSeriesHandler constructs a [SeriesHandler].
func NewSeriesHandler(service *Service) *SeriesHandler {
	return &SeriesHandler{service: service}
}

// Routes returns a [chi.Router] for everything under /series.
func (handler *SeriesHandler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.resolveSeries)
	router.Get("/{seriesID}", handler.getSeries)

	return router
}

/*
GET /series/{seriesID}.

Response:
  - 200: Series with chapters most recent first
  - 400: VALIDATION_ERROR: Malformed identifier
  - 404: NOT_FOUND
*/
func (handler *SeriesHandler) getSeries(writer http.ResponseWriter, request *http.Request) {
	content, err := handler.service.Series(request.Context(), requestutil.Param(request, "seriesID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, content)
}

/*
GET /series?url=.

Response:
  - 200: Series with chapters most recent first
  - 422: UNPROCESSABLE: Unsupported URL
*/
func (handler *SeriesHandler) resolveSeries(writer http.ResponseWriter, request *http.Request) {
	content, err := handler.service.ResolveSeries(request.Context(), requestutil.Query(request, "url"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, content)
}
