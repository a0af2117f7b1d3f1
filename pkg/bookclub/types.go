// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package bookclub is the client for the book-review web service.

# Problem Statement

The review service is loosely typed. The same logical record arrives in
several shapes depending on the endpoint:

 1. The catalog wraps books in a "books" object keyed by ISBN; some
    deployments return the bare map.
 2. A search result is either a single book object or a sequence of them.
 3. A book record is either flat ({title, author}), wrapped one level
    ({book: {...}}), or itself keyed by ISBN ({"123": {...}}).
 4. Reviews arrive as a map of review ID to {username, review}.
 5. Mutation endpoints answer with plain text, not JSON.

Rather than re-deriving these shapes at each render site, this package
normalizes every payload to one canonical record type at the API boundary.
Nothing downstream ever sees a raw payload.

# Canonical Types

	Book{ISBN, Title, Author}
	Review{ID, Username, Text}
	UserReview{Book, Review, ISBN, ReviewID}

Missing titles and authors normalize to "Unknown Title" / "Unknown Author"
so rendering code never branches on absent fields. The ISBN is taken from
an explicit "isbn" field when the record carries one, else from the
wrapping key.
*/
package bookclub

import (
	"encoding/json"
	"sort"
)

// Fallback values for records missing expected fields.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// Book is the canonical book record.
type Book struct {
	ISBN   string
	Title  string
	Author string
}

// Review is the canonical review record for one book.
type Review struct {
	// ID is the review's key within the book's review map.
	ID string

	// Username is the review author's identity.
	Username string

	// Text is the review body.
	Text string
}

// UserReview pairs a review with the book it belongs to. Produced by the
// user-review aggregator.
type UserReview struct {
	Book     Book
	Review   Review
	ISBN     string
	ReviewID string
}

// MutationResult carries the service's verbatim answer to a review or
// registration mutation. The service replies with plain text for both
// success and failure; the client does not parse it beyond the HTTP
// status code.
type MutationResult struct {
	// OK is true when the server answered with a 2xx status.
	OK bool

	// Message is the plain-text response body, shown to the user as-is.
	Message string
}

// -----------------------------------------------------------------------------
// Payload Normalization
// -----------------------------------------------------------------------------

// rawBookFields is the superset of fields a book record may carry.
type rawBookFields struct {
	ISBN   string          `json:"isbn"`
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Book   json.RawMessage `json:"book"`
}

// decodeBookRecord normalizes one raw book record.
//
// # Description
//
// Handles the three record shapes the service produces: flat (the record
// has a title), wrapped ({book: {...}}), and keyed by ISBN. key is the
// wrapping map key when the record came out of a catalog map; it becomes
// the ISBN unless the record carries an explicit isbn field.
func decodeBookRecord(key string, raw json.RawMessage) (Book, error) {
	var fields rawBookFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Book{}, err
	}

	// Wrapped one level: {book: {...}}
	if fields.Title == "" && len(fields.Book) > 0 {
		inner, err := decodeBookRecord(key, fields.Book)
		if err != nil {
			return Book{}, err
		}
		if fields.ISBN != "" {
			inner.ISBN = fields.ISBN
		}
		return inner, nil
	}

	// Keyed by isbn: {"123": {title, author}}. Only attempted when the
	// record is neither flat nor wrapped.
	if fields.Title == "" && fields.ISBN == "" {
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keyed); err == nil && len(keyed) == 1 {
			for isbn, inner := range keyed {
				var innerFields rawBookFields
				if err := json.Unmarshal(inner, &innerFields); err == nil && innerFields.Title != "" {
					return decodeBookRecord(isbn, inner)
				}
			}
		}
	}

	book := Book{
		ISBN:   fields.ISBN,
		Title:  fields.Title,
		Author: fields.Author,
	}
	if book.ISBN == "" {
		book.ISBN = key
	}
	if book.Title == "" {
		book.Title = UnknownTitle
	}
	if book.Author == "" {
		book.Author = UnknownAuthor
	}
	return book, nil
}

// decodeCatalog normalizes the catalog payload.
//
// Accepts both {books: {isbn: record}} and the bare {isbn: record} map.
// Books are returned sorted by ISBN for stable rendering.
func decodeCatalog(data []byte) ([]Book, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	records := top
	if raw, ok := top["books"]; ok {
		records = map[string]json.RawMessage{}
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &records); err != nil {
				return nil, err
			}
		}
	}

	books := make([]Book, 0, len(records))
	for isbn, raw := range records {
		book, err := decodeBookRecord(isbn, raw)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ISBN < books[j].ISBN })
	return books, nil
}

// decodeSearchResult normalizes a search payload, which is either a
// single book object or a sequence of them.
func decodeSearchResult(data []byte) ([]Book, error) {
	var sequence []json.RawMessage
	if err := json.Unmarshal(data, &sequence); err == nil {
		books := make([]Book, 0, len(sequence))
		for _, raw := range sequence {
			book, err := decodeBookRecord("", raw)
			if err != nil {
				return nil, err
			}
			books = append(books, book)
		}
		return books, nil
	}

	book, err := decodeBookRecord("", data)
	if err != nil {
		return nil, err
	}
	return []Book{book}, nil
}

// rawReview is one entry of the review map as the service sends it. The
// body field is named "review" on the wire.
type rawReview struct {
	Username string `json:"username"`
	Text     string `json:"review"`
}

// decodeReviews normalizes the {reviewId: {username, review}} payload to
// a slice sorted by review ID.
func decodeReviews(data []byte) ([]Review, error) {
	var records map[string]rawReview
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	reviews := make([]Review, 0, len(records))
	for id, r := range records {
		reviews = append(reviews, Review{
			ID:       id,
			Username: r.Username,
			Text:     r.Text,
		})
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}
