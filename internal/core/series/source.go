// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package series

import "context"

// # Content Source Contract

// Source fetches normalized series data from the content collaborator.
//
// Returned values are shared and must be treated as read-only.
// Errors are surfaced unchanged to callers; the bookmark core never interprets them.
type Source interface {

	/*
		Series returns the series with the given "site:series" identifier,
		including its full chapter list.

		Returns:
		  - *Series: Normalized series
		  - error: apperr.NotFound, apperr.Unprocessable or transport failures
	*/
	Series(ctx context.Context, id string) (*Series, error)

	/*
		Resolve maps a public series URL onto its canonical series.

		Returns:
		  - *Series: Normalized series
		  - error: apperr.Unprocessable for unsupported sites
	*/
	Resolve(ctx context.Context, url string) (*Series, error)
}
