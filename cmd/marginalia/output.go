// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
	"github.com/marginalia-reads/marginalia/pkg/ux"
)

// fail prints the error and exits. Typed API errors already carry a
// user-facing message and remediation, so they print as-is.
func fail(err error) {
	appLogger.Error("command failed", "error", err)
	ux.Error(err.Error())
	if apiErr, ok := err.(*bookclub.APIError); ok && apiErr.Remediation != "" {
		ux.Muted("  " + apiErr.Remediation)
	}
	os.Exit(1)
}

// printBook renders one catalog card.
func printBook(book bookclub.Book) {
	if ux.Plain {
		fmt.Printf("%s\t%s\t%s\n", book.ISBN, book.Title, book.Author)
		return
	}
	content := ux.Styles.Subtitle.Render("by "+book.Author) + "\n" +
		ux.Styles.Muted.Render("ISBN "+book.ISBN)
	ux.Box(string(ux.IconBook)+" "+book.Title, content)
}

// printBookList renders a slice of catalog cards, with the shared
// empty-state line when there is nothing to show.
func printBookList(books []bookclub.Book) {
	if len(books) == 0 {
		ux.Muted("No books found")
		return
	}
	for _, book := range books {
		printBook(book)
	}
	if !ux.Plain {
		ux.Muted(fmt.Sprintf("%d book(s)", len(books)))
	}
}

// printReviews renders a book's review list.
func printReviews(reviews []bookclub.Review) {
	if len(reviews) == 0 {
		ux.Muted("No reviews yet")
		return
	}
	for _, review := range reviews {
		if ux.Plain {
			fmt.Printf("%s\t%s\n", review.Username, review.Text)
			continue
		}
		fmt.Printf("%s %s\n  %s\n",
			ux.IconBullet.Render(),
			ux.Styles.Bold.Render(review.Username),
			review.Text)
	}
}

// printMutationResult relays the server's verbatim receipt.
func printMutationResult(result bookclub.MutationResult) {
	if result.OK {
		ux.Success(result.Message)
		return
	}
	ux.Warning(result.Message)
}
