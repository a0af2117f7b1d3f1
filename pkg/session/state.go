// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session holds the client's in-process application state: the
// authenticated identity and the currently selected book.
//
// # Description
//
// There is deliberately no ambient global here. One State is created at
// startup, owned by the command entry point, and injected into every
// view and handler that needs it. It is only ever mutated through the
// Login / Logout / SelectBook operations, so staleness has exactly one
// source: a handler holding a value read before a concurrent mutation.
//
// Nothing is persisted. The session and the selection vanish when the
// process exits, matching the page-reload semantics of the service's
// other clients.
//
// # Security Considerations
//
// The bearer token never sits in a plain string field. It lives in a
// memguard enclave (encrypted at rest in memory, wiped on destroy) and
// is only materialized for the duration of building a request header.
// Callers must not log the value returned by Token.
package session

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
)

// ErrNotAuthenticated is returned by Token when no session is active.
var ErrNotAuthenticated = errors.New("no active session")

// Selection is the transient view model for the book open in the detail
// view, including its locally cached reviews. Discarded when the detail
// view is left or the selection is replaced.
type Selection struct {
	Book    bookclub.Book
	Reviews []bookclub.Review
}

// State is the client's session and selection state.
//
// Invariant: username and the token enclave are set together or nil
// together. Login and Logout are the only writers of either.
//
// State is safe for concurrent use.
type State struct {
	mu       sync.RWMutex
	username string
	token    *memguard.Enclave
	selected *Selection
}

// New returns an empty, unauthenticated State.
func New() *State {
	return &State{}
}

// Login records the identity after a successful API login.
//
// The token moves into an enclave immediately; the plaintext argument
// should not be retained by the caller.
func (s *State) Login(username, token string) error {
	if username == "" || token == "" {
		return errors.New("session requires both username and token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.token = memguard.NewEnclave([]byte(token))
	return nil
}

// Logout clears the identity, token, and selection unconditionally.
// Safe to call when not logged in.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = ""
	s.token = nil
	s.selected = nil
}

// Authenticated reports whether a session is active.
func (s *State) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username != ""
}

// Username returns the authenticated identity, or "" when logged out.
func (s *State) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// Token materializes the bearer token for building a request header.
//
// Returns ErrNotAuthenticated when no session is active. The returned
// string is a copy; callers must not log it.
func (s *State) Token() (string, error) {
	s.mu.RLock()
	enclave := s.token
	s.mu.RUnlock()

	if enclave == nil {
		return "", ErrNotAuthenticated
	}
	buf, err := enclave.Open()
	if err != nil {
		return "", err
	}
	defer buf.Destroy()
	return string(buf.Bytes()), nil
}

// SelectBook replaces the selection with the given book and its reviews.
func (s *State) SelectBook(book bookclub.Book, reviews []bookclub.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &Selection{Book: book, Reviews: reviews}
}

// UpdateReviews refreshes the cached reviews of the current selection.
// No-op when nothing is selected.
func (s *State) UpdateReviews(reviews []bookclub.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != nil {
		s.selected.Reviews = reviews
	}
}

// ClearSelection discards the selection, e.g. when leaving the detail
// view.
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns a copy of the current selection and whether one
// exists.
func (s *State) Selected() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return Selection{}, false
	}
	sel := *s.selected
	sel.Reviews = append([]bookclub.Review(nil), s.selected.Reviews...)
	return sel, true
}
