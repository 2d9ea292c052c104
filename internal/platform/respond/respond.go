// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes every HTTP response the API produces.

Envelopes:

	success:   {"data": ...}
	paginated: {"data": [...], "meta": {...}}
	error:     {"error": "...", "code": "...", "details": [...]}

Responses are scoped by a collection slug, which is a credential, so every
response is marked non-cacheable.
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/pkg/pagination"
)

type dataEnvelope struct {
	Data any `json:"data"`
}

type paginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// write encodes payload with the shared headers.
func write(writer http.ResponseWriter, status int, payload any) {
	header := writer.Header()
	header.Set("Content-Type", "application/json; charset=utf-8")
	header.Set("Cache-Control", "no-store")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

// # Success

// Data writes payload inside the success envelope with an explicit status.
func Data(writer http.ResponseWriter, status int, payload any) {
	write(writer, status, dataEnvelope{Data: payload})
}

// OK writes a 200 response.
func OK(writer http.ResponseWriter, payload any) {
	Data(writer, http.StatusOK, payload)
}

// Created writes a 201 response.
func Created(writer http.ResponseWriter, payload any) {
	Data(writer, http.StatusCreated, payload)
}

// Accepted writes a 202 response for work that completes in the background.
func Accepted(writer http.ResponseWriter, payload any) {
	Data(writer, http.StatusAccepted, payload)
}

// Paginated writes a 200 response with one page of items and its metadata.
func Paginated(writer http.ResponseWriter, items any, metadata pagination.Meta) {
	write(writer, http.StatusOK, paginatedEnvelope{Data: items, Meta: metadata})
}

// NoContent writes a bare 204.
func NoContent(writer http.ResponseWriter) {
	writer.Header().Set("Cache-Control", "no-store")
	writer.WriteHeader(http.StatusNoContent)
}

// # Errors

// Error renders err. Anything that is not an [apperr.AppError] becomes an
// opaque 500; the original is logged with the request's logger.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	write(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
