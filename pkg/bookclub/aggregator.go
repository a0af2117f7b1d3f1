// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bookclub

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// defaultAggregatorWorkers bounds concurrent review fetches.
	defaultAggregatorWorkers = 4

	// defaultAggregatorRate throttles review fetches (requests/second)
	// so a large catalog scan stays polite to the service.
	defaultAggregatorRate = 8
)

// FindUserReviews scans every book's reviews for entries authored by
// username.
//
// # Description
//
// The service has no "my reviews" endpoint, so the client derives the
// answer itself: fetch the catalog, fetch each book's reviews, and keep
// the entries whose username matches. Review fetches run on a bounded
// worker group throttled by a rate limiter; no ordering guarantee exists
// across books, so the result is sorted by ISBN (then review ID) for
// stable output.
//
// Partial-failure policy: an individual review fetch that fails is
// logged and skipped so one bad book never aborts the whole scan. Only
// the initial catalog fetch is fatal.
//
// # Inputs
//
//   - ctx: Context for cancellation. Cancelling stops the scan with the
//     context's error.
//   - username: Identity to match. Empty fails locally with
//     ErrorInvalidInput; callers should have checked the session first.
//
// # Outputs
//
//   - []UserReview: Matching reviews, possibly empty. Empty with a nil
//     error means "logged in, no reviews" - the caller distinguishes
//     that from "not logged in" before calling.
//   - error: Catalog fetch failure or context cancellation.
func (c *Client) FindUserReviews(ctx context.Context, username string) ([]UserReview, error) {
	if username == "" {
		return nil, invalidInput("Please login to view your reviews")
	}

	books, err := c.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Limit(c.aggRate), 1)

	var (
		mu      sync.Mutex
		matches []UserReview
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.aggWorkers)
	for _, book := range books {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			reviews, err := c.GetReviews(gctx, book.ISBN)
			if err != nil {
				// Skip and continue: one bad book must not
				// abort the scan.
				c.logger.Warn("skipping book in review scan",
					"isbn", book.ISBN,
					"error", err.Error(),
				)
				return nil
			}
			for _, review := range reviews {
				if review.Username != username {
					continue
				}
				mu.Lock()
				matches = append(matches, UserReview{
					Book:     book,
					Review:   review,
					ISBN:     book.ISBN,
					ReviewID: review.ID,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].ISBN != matches[j].ISBN {
			return matches[i].ISBN < matches[j].ISBN
		}
		return matches[i].ReviewID < matches[j].ReviewID
	})
	return matches, nil
}
