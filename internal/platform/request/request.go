// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/mangashelf/internal/platform/validate"
)

// maxBodyBytes caps inbound JSON payloads; every request body in this API is tiny.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

An empty body is accepted and leaves target untouched, so optional payloads
(e.g. POST /collections without a slug) do not need special casing.

Returns:
  - error: a VALIDATION_ERROR if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if request.Body == nil {
		return nil
	}

	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return validate.InvalidJSON(err)
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.

Values are path-unescaped because series and chapter IDs carry ':' separators
that some clients percent-encode.
*/
func Param(request *http.Request, name string) string {
	raw := chi.URLParam(request, name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// Query retrieves a single query-string value.
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}
