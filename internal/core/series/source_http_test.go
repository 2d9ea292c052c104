// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/core/series"
	"github.com/taibuivan/mangashelf/internal/platform/apperr"
)

const seriesPayload = `{
	"id": "md:abc",
	"title": "<b>Dungeon</b> &amp; Meshi",
	"url": "https://mangadex.org/title/abc",
	"supportsReading": true,
	"updatedAt": "2026-01-02T03:04:05Z",
	"chapters": [
		{"id": "md:abc:1", "order": 1, "createdAt": "2026-01-01T00:00:00Z", "chapterNumber": "1", "volumeNumber": "", "title": "  <i>Hot Pot</i> "},
		{"id": "md:abc:2", "order": 2, "createdAt": "2026-01-02T00:00:00Z", "chapterNumber": "0"}
	]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeJSON(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = io.WriteString(writer, body)
}

/*
TestHTTPSource_Series verifies decoding and normalization of a successful fetch.
*/
func TestHTTPSource_Series(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "md:abc", strings.TrimPrefix(request.URL.Path, "/series/"))
		writeJSON(writer, http.StatusOK, seriesPayload)
	}))
	defer server.Close()

	source := series.NewHTTPSource(server.URL, time.Second, discardLogger())

	got, err := source.Series(context.Background(), "md:abc")
	require.NoError(t, err)

	assert.Equal(t, "Dungeon & Meshi", got.Title)
	require.Len(t, got.Chapters, 2)

	first := got.Chapters[0]
	assert.Equal(t, "md:abc", first.SeriesID)
	require.NotNil(t, first.Title)
	assert.Equal(t, "Hot Pot", *first.Title)
	assert.Nil(t, first.VolumeNumber, "empty volume collapses to absent")

	second := got.Chapters[1]
	require.NotNil(t, second.ChapterNumber)
	assert.Equal(t, "0", *second.ChapterNumber, "zero stays present")
}

/*
TestHTTPSource_StripsEscapedMarkup verifies that markup hidden behind one or
more layers of entity escaping does not survive normalization.
*/
func TestHTTPSource_StripsEscapedMarkup(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Berserk", "Berserk"},
		{"entity_text", "Spice &amp; Wolf", "Spice & Wolf"},
		{"escaped_tags", "&lt;b&gt;Berserk&lt;/b&gt;", "Berserk"},
		{"double_escaped_tags", "&amp;lt;i&amp;gt;Eclipse&amp;lt;/i&amp;gt;", "Eclipse"},
		{"escaped_script", "&lt;script&gt;alert(1)&lt;/script&gt;Vinland", "Vinland"},
		{"bare_less_than", "A < B", "A < B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writeJSON(writer, http.StatusOK, `{"id": "md:x", "title": "`+tt.title+`", "chapters": []}`)
			}))
			defer server.Close()

			source := series.NewHTTPSource(server.URL, time.Second, discardLogger())

			got, err := source.Series(context.Background(), "md:x")
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.Title)
			assert.NotContains(t, got.Title, "<b>")
			assert.NotContains(t, got.Title, "<i>")
			assert.NotContains(t, got.Title, "<script>")
		})
	}
}

/*
TestHTTPSource_Resolve verifies that the URL is forwarded as a query parameter.
*/
func TestHTTPSource_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/resolve", request.URL.Path)
		assert.Equal(t, "https://mangadex.org/title/abc", request.URL.Query().Get("url"))
		writeJSON(writer, http.StatusOK, seriesPayload)
	}))
	defer server.Close()

	source := series.NewHTTPSource(server.URL, time.Second, discardLogger())

	got, err := source.Resolve(context.Background(), "https://mangadex.org/title/abc")
	require.NoError(t, err)
	assert.Equal(t, "md:abc", got.ID)
}

/*
TestHTTPSource_Errors verifies that collaborator failures are surfaced as AppErrors.
*/
func TestHTTPSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{"not_found", http.StatusNotFound, `{"error":"no such series"}`, "NOT_FOUND", "Series not found"},
		{"unsupported", http.StatusUnprocessableEntity, `{"error":"unsupported site"}`, "UNPROCESSABLE", "unsupported site"},
		{"bad_request", http.StatusBadRequest, `{}`, "UNPROCESSABLE", "Series URL is not supported"},
		{"upstream", http.StatusInternalServerError, `{"error":"scraper crashed"}`, "BAD_GATEWAY", "Content source is unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writeJSON(writer, tt.status, tt.body)
			}))
			defer server.Close()

			source := series.NewHTTPSource(server.URL, time.Second, discardLogger(), series.WithRetries(0, time.Millisecond))

			_, err := source.Series(context.Background(), "md:abc")
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.message, ae.Message)
		})
	}
}

/*
TestHTTPSource_Timeout verifies that a slow collaborator surfaces as a gateway timeout.
*/
func TestHTTPSource_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-request.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	source := series.NewHTTPSource(server.URL, 50*time.Millisecond, discardLogger(), series.WithRetries(0, time.Millisecond))

	_, err := source.Series(context.Background(), "md:abc")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeGatewayTimeout, ae.Code)
}

/*
TestHTTPSource_RetriesServerErrors verifies that 5xx responses are retried.
*/
func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if hits.Add(1) == 1 {
			writeJSON(writer, http.StatusServiceUnavailable, `{"error":"warming up"}`)
			return
		}
		writeJSON(writer, http.StatusOK, seriesPayload)
	}))
	defer server.Close()

	source := series.NewHTTPSource(server.URL, time.Second, discardLogger(), series.WithRetries(2, time.Millisecond))

	got, err := source.Series(context.Background(), "md:abc")
	require.NoError(t, err)
	assert.Equal(t, "md:abc", got.ID)
	assert.Equal(t, int32(2), hits.Load())
}
