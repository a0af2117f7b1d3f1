// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
	"github.com/marginalia-reads/marginalia/pkg/ux"
)

func runListBooks(cmd *cobra.Command, args []string) {
	books, err := client.ListBooks(context.Background())
	if err != nil {
		fail(err)
	}
	ux.Title("Catalog")
	printBookList(books)
}

func runSearchBooks(cmd *cobra.Command, args []string) {
	books, err := client.Search(context.Background(), bookclub.SearchKind(searchBy), args[0])
	if err != nil {
		fail(err)
	}
	ux.Title("Search results")
	printBookList(books)
}

func runShowBook(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	isbn := args[0]

	book, err := client.GetBookByISBN(ctx, isbn)
	if err != nil {
		fail(err)
	}
	printBook(book)

	reviews, err := client.GetReviews(ctx, isbn)
	if err != nil {
		fail(err)
	}
	ux.Title("Reviews")
	printReviews(reviews)
}
