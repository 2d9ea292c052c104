// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/pkg/pointer"
)

// Retry tuning for the content source.
const (
	retryCount       = 3
	retryWaitTime    = 500 * time.Millisecond
	retryMaxWaitTime = 5 * time.Second
)

// # HTTP Content Source

// HTTPSource implements [Source] against the scraping service's JSON API.
type HTTPSource struct {
	client *resty.Client
	logger *slog.Logger
}

// sourceError is the error body returned by the scraping service.
type sourceError struct {
	Message string `json:"error"`
}

// HTTPSourceOption adjusts the underlying resty client.
type HTTPSourceOption func(*resty.Client)

// WithRetries overrides the retry budget and the initial backoff.
func WithRetries(count int, wait time.Duration) HTTPSourceOption {
	return func(client *resty.Client) {
		client.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// NewHTTPSource constructs a resty-backed [Source] rooted at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration, logger *slog.Logger, options ...HTTPSourceOption) *HTTPSource {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger}).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWaitTime).
		SetRetryMaxWaitTime(retryMaxWaitTime).
		SetRetryAfter(retryAfter).
		AddRetryCondition(func(response *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			status := response.StatusCode()
			return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
		})

	for _, option := range options {
		option(client)
	}

	return &HTTPSource{client: client, logger: logger}
}

// Series implements [Source].
func (source *HTTPSource) Series(ctx context.Context, id string) (*Series, error) {
	request := source.client.R().
		SetContext(ctx).
		SetPathParam("id", id)

	return source.fetch(request, "/series/{id}")
}

// Resolve implements [Source].
func (source *HTTPSource) Resolve(ctx context.Context, url string) (*Series, error) {
	request := source.client.R().
		SetContext(ctx).
		SetQueryParam("url", url)

	return source.fetch(request, "/resolve")
}

// fetch executes a GET and maps the collaborator's status codes onto [apperr] values.
func (source *HTTPSource) fetch(request *resty.Request, path string) (*Series, error) {
	var (
		payload Series
		failure sourceError
	)

	response, err := request.
		SetResult(&payload).
		SetError(&failure).
		Get(path)
	if err != nil {
		// The caller went away; there is nobody to report to
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		cause := fmt.Errorf("source: GET %s: %w", path, err)
		var timeout interface{ Timeout() bool }
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
			return nil, apperr.GatewayTimeout(cause)
		}
		return nil, apperr.BadGateway("Content source is unavailable", cause)
	}

	if response.IsError() {
		return nil, mapStatus(response.StatusCode(), failure.Message, path)
	}

	normalize(&payload)

	source.logger.Debug("series_fetched",
		slog.String("series_id", payload.ID),
		slog.Int("chapters", len(payload.Chapters)),
	)

	return &payload, nil
}

// mapStatus translates a collaborator failure. Messages pass through unchanged.
func mapStatus(status int, message, path string) error {
	switch status {
	case http.StatusNotFound:
		return apperr.NotFound("Series")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if message == "" {
			message = "Series URL is not supported"
		}
		return apperr.Unprocessable(message)
	default:
		return apperr.BadGateway("Content source is unavailable",
			fmt.Errorf("source: GET %s: status %d: %s", path, status, message))
	}
}

// retryAfter honours a Retry-After header on 429 responses.
func retryAfter(_ *resty.Client, response *resty.Response) (time.Duration, error) {
	if response == nil || response.StatusCode() != http.StatusTooManyRequests {
		return 0, nil
	}

	header := response.Header().Get("Retry-After")
	if header == "" {
		return 0, nil
	}

	if seconds, err := time.ParseDuration(header + "s"); err == nil {
		return seconds, nil
	}
	if at, err := http.ParseTime(header); err == nil {
		return time.Until(at), nil
	}
	return 0, nil
}

// # Normalization

var stripPolicy = bluemonday.StrictPolicy()

// maxUnescapes bounds entity decoding of nested escapes before stripping.
const maxUnescapes = 4

// normalize cleans scraped text and fills identifiers the source may omit.
func normalize(payload *Series) {
	payload.Title = sanitize(payload.Title)

	for _, chapter := range payload.Chapters {
		if chapter.SeriesID == "" {
			chapter.SeriesID = payload.ID
		}
		chapter.Title = optional(chapter.Title, sanitize)
		chapter.ChapterNumber = optional(chapter.ChapterNumber, strings.TrimSpace)
		chapter.VolumeNumber = optional(chapter.VolumeNumber, strings.TrimSpace)
	}
}

// sanitize removes all markup from scraped text.
//
// Entities are decoded before stripping so escaped markup cannot reappear as
// tags afterwards. The policy re-escapes text, which the final pass undoes.
func sanitize(s string) string {
	for range maxUnescapes {
		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}
		s = decoded
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// optional applies clean to a present value and collapses empty results to nil.
// "0" stays present.
func optional(value *string, clean func(string) string) *string {
	if value == nil {
		return nil
	}
	if cleaned := clean(*value); cleaned != "" {
		return pointer.To(cleaned)
	}
	return nil
}

// restyLogger routes resty's internal messages into slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
