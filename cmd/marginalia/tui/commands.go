// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
)

// loadCatalogCmd fetches the full book catalog in the background.
func (m *Model) loadCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		books, err := m.svc.ListBooks(context.Background())
		return catalogLoadedMsg{books: books, err: err}
	}
}

// searchCmd runs a catalog search. Local validation happens in the
// client, so an empty term or bad kind comes back as an error without
// any network traffic.
func (m *Model) searchCmd(kind bookclub.SearchKind, term string) tea.Cmd {
	return func() tea.Msg {
		books, err := m.svc.Search(context.Background(), kind, term)
		return searchDoneMsg{books: books, err: err}
	}
}

// openBookCmd fetches a single book by ISBN ahead of the detail view.
func (m *Model) openBookCmd(isbn string) tea.Cmd {
	return func() tea.Msg {
		book, err := m.svc.GetBookByISBN(context.Background(), isbn)
		return bookOpenedMsg{book: book, err: err}
	}
}

// loadReviewsCmd fetches the review list for a book. A book with no
// reviews yields an empty slice, never an error.
func (m *Model) loadReviewsCmd(isbn string) tea.Cmd {
	return func() tea.Msg {
		reviews, err := m.svc.GetReviews(context.Background(), isbn)
		return reviewsLoadedMsg{isbn: isbn, reviews: reviews, err: err}
	}
}

// loginCmd exchanges credentials for a bearer token.
func (m *Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := m.svc.Login(context.Background(), username, password)
		return loginDoneMsg{username: username, token: token, err: err}
	}
}

// registerCmd creates a new account and relays the server's verbatim
// response.
func (m *Model) registerCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.Register(context.Background(), username, password)
		return registerDoneMsg{result: result, err: err}
	}
}

// addReviewCmd submits a new review for the given book.
func (m *Model) addReviewCmd(isbn, text, token string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.AddReview(context.Background(), isbn, text, token)
		return mutationDoneMsg{isbn: isbn, result: result, err: err}
	}
}

// updateReviewCmd replaces the session user's review for the book.
func (m *Model) updateReviewCmd(isbn, text, token string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.UpdateReview(context.Background(), isbn, text, token)
		return mutationDoneMsg{isbn: isbn, result: result, err: err}
	}
}

// deleteReviewCmd removes the session user's review for the book.
func (m *Model) deleteReviewCmd(isbn, token string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.svc.DeleteReview(context.Background(), isbn, token)
		return mutationDoneMsg{isbn: isbn, result: result, err: err}
	}
}

// loadUserReviewsCmd scans the catalog for every review authored by
// the session user.
func (m *Model) loadUserReviewsCmd(username string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.svc.FindUserReviews(context.Background(), username)
		return userReviewsMsg{items: items, err: err}
	}
}
