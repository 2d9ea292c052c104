// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error type every service-level failure is reported as.

An [AppError] pairs a stable machine-readable code with a client-safe message and
the HTTP status it renders as. Three sources produce them:

  - Boundary validation (VALIDATION_ERROR, with per-field details).
  - Storage, through dberr (NOT_FOUND, CONFLICT).
  - The content source (NOT_FOUND, UNPROCESSABLE, BAD_GATEWAY, GATEWAY_TIMEOUT).

Collaborator messages for UNPROCESSABLE are passed to the client verbatim.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeValidation     = "VALIDATION_ERROR"
	CodeUnprocessable  = "UNPROCESSABLE"
	CodeRateLimited    = "RATE_LIMITED"
	CodeInternal       = "INTERNAL_ERROR"
	CodeBadGateway     = "BAD_GATEWAY"
	CodeGatewayTimeout = "GATEWAY_TIMEOUT"
)

// AppError is the canonical error type for the mangashelf API.
//
// Cause is logged server-side and never serialised, so SQL and upstream
// details stay out of responses.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"error"`
	HTTPStatus int          `json:"-"`
	Cause      error        `json:"-"`
	Details    []FieldError `json:"details,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the cause to [errors.Is] and [errors.As].
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func newError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

// # Client Errors (4xx)

// NotFound reports a missing resource, e.g. NotFound("Bookmark") reads
// "Bookmark not found".
func NotFound(resource string) *AppError {
	return newError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

// Conflict reports a duplicate (taken slug, series already bookmarked).
func Conflict(msg string) *AppError {
	return newError(CodeConflict, http.StatusConflict, msg)
}

// ValidationError reports malformed input with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	validation := newError(CodeValidation, http.StatusBadRequest, msg)
	validation.Details = details
	return validation
}

// Unprocessable reports well-formed input the content source refused, such as
// a URL on an unsupported site.
func Unprocessable(msg string) *AppError {
	return newError(CodeUnprocessable, http.StatusUnprocessableEntity, msg)
}

// RateLimited reports an exhausted per-client token bucket.
func RateLimited(retryAfterSeconds int) *AppError {
	return newError(CodeRateLimited, http.StatusTooManyRequests,
		fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds))
}

// # Server Errors (5xx)

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *AppError {
	return newError(CodeInternal, http.StatusInternalServerError, "An unexpected error occurred").WithCause(cause)
}

// BadGateway reports a content source that failed or answered nonsense.
func BadGateway(msg string, cause error) *AppError {
	return newError(CodeBadGateway, http.StatusBadGateway, msg).WithCause(cause)
}

// GatewayTimeout reports a content source that did not answer in time.
func GatewayTimeout(cause error) *AppError {
	return newError(CodeGatewayTimeout, http.StatusGatewayTimeout, "Content source timed out").WithCause(cause)
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	return As(err) != nil
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError
	}
	return nil
}
