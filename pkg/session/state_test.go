// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"testing"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
)

func TestState_StartsLoggedOut(t *testing.T) {
	s := New()

	if s.Authenticated() {
		t.Error("fresh state should not be authenticated")
	}
	if s.Username() != "" {
		t.Errorf("Username() = %q, want empty", s.Username())
	}
	if _, err := s.Token(); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Token() error = %v, want ErrNotAuthenticated", err)
	}
	if _, ok := s.Selected(); ok {
		t.Error("fresh state should have no selection")
	}
}

func TestState_LoginRoundTrip(t *testing.T) {
	s := New()
	if err := s.Login("alice", "jwt-abc"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if !s.Authenticated() {
		t.Error("expected authenticated state")
	}
	if s.Username() != "alice" {
		t.Errorf("Username() = %q, want %q", s.Username(), "alice")
	}

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("Token() = %q, want %q", token, "jwt-abc")
	}

	// The token must survive repeated reads.
	token2, err := s.Token()
	if err != nil || token2 != "jwt-abc" {
		t.Errorf("second Token() = %q, %v", token2, err)
	}
}

func TestState_LoginRequiresBothFields(t *testing.T) {
	s := New()

	if err := s.Login("", "jwt-abc"); err == nil {
		t.Error("Login without username should fail")
	}
	if err := s.Login("alice", ""); err == nil {
		t.Error("Login without token should fail")
	}
	if s.Authenticated() {
		t.Error("failed logins must not leave a partial session")
	}
}

func TestState_LogoutClearsEverything(t *testing.T) {
	s := New()
	if err := s.Login("alice", "jwt-abc"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	s.SelectBook(bookclub.Book{ISBN: "1", Title: "A"}, nil)

	s.Logout()

	if s.Authenticated() {
		t.Error("expected logged-out state")
	}
	if _, err := s.Token(); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("Token() after logout = %v, want ErrNotAuthenticated", err)
	}
	if _, ok := s.Selected(); ok {
		t.Error("logout should clear the selection")
	}

	// Logout is idempotent.
	s.Logout()
}

func TestState_SelectionLifecycle(t *testing.T) {
	s := New()
	book := bookclub.Book{ISBN: "7", Title: "The Odyssey", Author: "Homer"}
	reviews := []bookclub.Review{{ID: "r1", Username: "alice", Text: "epic"}}

	s.SelectBook(book, reviews)

	sel, ok := s.Selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	if sel.Book != book || len(sel.Reviews) != 1 {
		t.Errorf("unexpected selection: %+v", sel)
	}

	// The returned copy must be insulated from later mutation.
	sel.Reviews[0].Text = "mutated"
	fresh, _ := s.Selected()
	if fresh.Reviews[0].Text != "epic" {
		t.Error("Selected() must return a defensive copy of the reviews")
	}

	s.UpdateReviews([]bookclub.Review{
		{ID: "r1", Username: "alice", Text: "epic"},
		{ID: "r2", Username: "bob", Text: "long"},
	})
	sel, _ = s.Selected()
	if len(sel.Reviews) != 2 {
		t.Errorf("UpdateReviews should replace cached reviews, got %+v", sel.Reviews)
	}

	s.ClearSelection()
	if _, ok := s.Selected(); ok {
		t.Error("ClearSelection should discard the selection")
	}
}

func TestState_UpdateReviewsWithoutSelection(t *testing.T) {
	s := New()
	// Must not panic or create a phantom selection.
	s.UpdateReviews([]bookclub.Review{{ID: "r1"}})
	if _, ok := s.Selected(); ok {
		t.Error("UpdateReviews without a selection should be a no-op")
	}
}
