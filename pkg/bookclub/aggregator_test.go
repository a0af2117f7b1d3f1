// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package bookclub

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/marginalia-reads/marginalia/pkg/logging"
)

// reviewScanHandler serves a small catalog plus per-book review maps,
// standing in for the review service during aggregator tests.
func reviewScanHandler(reviewsByISBN map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			w.Write([]byte(`{"books":{
				"1":{"title":"Things Fall Apart","author":"Chinua Achebe"},
				"2":{"title":"Fairy tales","author":"Hans Christian Andersen"},
				"3":{"title":"The Divine Comedy","author":"Dante Alighieri"}
			}}`))
		case strings.HasPrefix(r.URL.Path, "/review/"):
			isbn := strings.TrimPrefix(r.URL.Path, "/review/")
			body, ok := reviewsByISBN[isbn]
			if !ok {
				http.Error(w, "no reviews", http.StatusNotFound)
				return
			}
			w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}
}

func TestFindUserReviews_EmptyUsernameFailsLocally(t *testing.T) {
	client, hits := newTestClient(t, reviewScanHandler(nil))

	_, err := client.FindUserReviews(context.Background(), "")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if err.Error() != "Please login to view your reviews" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if hits.Load() != 0 {
		t.Error("empty username should not reach the network")
	}
}

func TestFindUserReviews_CollectsAndSorts(t *testing.T) {
	client, _ := newTestClient(t, reviewScanHandler(map[string]string{
		"1": `{"r1":{"username":"alice","review":"a classic"}}`,
		"2": `{"r2":{"username":"bob","review":"charming"},"r3":{"username":"alice","review":"read it twice"}}`,
		"3": `{"r4":{"username":"carol","review":"dense"}}`,
	}))

	items, err := client.FindUserReviews(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindUserReviews() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(items), items)
	}
	// Sorted by ISBN.
	if items[0].ISBN != "1" || items[1].ISBN != "2" {
		t.Errorf("matches not sorted by ISBN: %+v", items)
	}
	if items[0].Book.Title != "Things Fall Apart" {
		t.Errorf("match should carry its book: %+v", items[0])
	}
	if items[1].Review.Text != "read it twice" {
		t.Errorf("wrong review matched: %+v", items[1])
	}
}

func TestFindUserReviews_NoMatches(t *testing.T) {
	client, _ := newTestClient(t, reviewScanHandler(map[string]string{
		"1": `{"r1":{"username":"alice","review":"a classic"}}`,
	}))

	items, err := client.FindUserReviews(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindUserReviews() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no matches, got %+v", items)
	}
}

func TestFindUserReviews_SkipsFailingBook(t *testing.T) {
	// Book 2 answers with a parse-breaking body; its failure must not
	// abort the scan or hide book 3's match.
	client, _ := newTestClient(t, reviewScanHandler(map[string]string{
		"1": `{"r1":{"username":"alice","review":"a classic"}}`,
		"2": `this is not json`,
		"3": `{"r4":{"username":"alice","review":"dense but worth it"}}`,
	}))

	items, err := client.FindUserReviews(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindUserReviews() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 matches despite one failing book, got %d", len(items))
	}
	if items[0].ISBN != "1" || items[1].ISBN != "3" {
		t.Errorf("unexpected matches: %+v", items)
	}
}

func TestFindUserReviews_CatalogFailureIsFatal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	})

	_, err := client.FindUserReviews(context.Background(), "alice")
	if err == nil {
		t.Fatal("catalog failure should abort the scan")
	}
}

func TestFindUserReviews_HonorsWorkerLimit(t *testing.T) {
	logger := logging.New(logging.Config{Quiet: true})
	client := NewClient("http://localhost:1", logger,
		WithAggregatorLimits(2, 50))

	if client.aggWorkers != 2 {
		t.Errorf("aggWorkers = %d, want 2", client.aggWorkers)
	}
	if client.aggRate != 50 {
		t.Errorf("aggRate = %v, want 50", client.aggRate)
	}
}
