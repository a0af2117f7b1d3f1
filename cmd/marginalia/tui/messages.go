// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import "github.com/marginalia-reads/marginalia/pkg/bookclub"

// catalogLoadedMsg carries the full catalog fetch result.
type catalogLoadedMsg struct {
	books []bookclub.Book
	err   error
}

// searchDoneMsg carries the result of a catalog search.
type searchDoneMsg struct {
	books []bookclub.Book
	err   error
}

// bookOpenedMsg carries the single-book lookup that precedes the
// detail view. Reviews arrive separately in reviewsLoadedMsg so the
// composer can be reset before they land.
type bookOpenedMsg struct {
	book bookclub.Book
	err  error
}

// reviewsLoadedMsg carries the review list for the book named by isbn.
type reviewsLoadedMsg struct {
	isbn    string
	reviews []bookclub.Review
	err     error
}

// loginDoneMsg carries the outcome of a credential exchange.
type loginDoneMsg struct {
	username string
	token    string
	err      error
}

// registerDoneMsg carries the server's verbatim registration response.
type registerDoneMsg struct {
	result bookclub.MutationResult
	err    error
}

// mutationDoneMsg carries the server's verbatim response to a review
// add, update, or delete. The isbn identifies which book to re-fetch.
type mutationDoneMsg struct {
	isbn   string
	result bookclub.MutationResult
	err    error
}

// userReviewsMsg carries the cross-catalog scan for the session user.
type userReviewsMsg struct {
	items []bookclub.UserReview
	err   error
}
