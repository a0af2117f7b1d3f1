// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	searchBy  string // lookup kind for books search (isbn/author/title)
	username  string // account name, prompted for when empty
	assumeYes bool   // skip the delete confirmation prompt

	rootCmd = &cobra.Command{
		Use:   "marginalia",
		Short: "A terminal client for the Marginalia book review service",
		Long: `Marginalia lets you browse a shared book catalog, read what other
				members thought, and keep your own margin notes on every book.`,
	}

	// --- Interactive Browser ---
	browseCmd = &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog browser",
		Run:   runBrowse, // Defined in cmd_browse.go
	}

	// --- Catalog ---
	booksCmd = &cobra.Command{
		Use:   "books",
		Short: "Browse and search the book catalog",
	}
	listBooksCmd = &cobra.Command{
		Use:   "list",
		Short: "List every book in the catalog",
		Run:   runListBooks, // Defined in cmd_books.go
	}
	searchBooksCmd = &cobra.Command{
		Use:   "search [term]",
		Short: "Search the catalog by title, author, or ISBN",
		Args:  cobra.ExactArgs(1),
		Run:   runSearchBooks, // Defined in cmd_books.go
	}
	showBookCmd = &cobra.Command{
		Use:   "show [isbn]",
		Short: "Show one book with all of its reviews",
		Args:  cobra.ExactArgs(1),
		Run:   runShowBook, // Defined in cmd_books.go
	}

	// --- Reviews ---
	reviewCmd = &cobra.Command{
		Use:   "review",
		Short: "Add, update, or delete your review of a book",
	}
	addReviewCmd = &cobra.Command{
		Use:   "add [isbn] [text]",
		Short: "Add your review for a book",
		Args:  cobra.MinimumNArgs(2),
		Run:   runAddReview, // Defined in cmd_review.go
	}
	updateReviewCmd = &cobra.Command{
		Use:   "update [isbn] [text]",
		Short: "Replace your review for a book",
		Args:  cobra.MinimumNArgs(2),
		Run:   runUpdateReview, // Defined in cmd_review.go
	}
	deleteReviewCmd = &cobra.Command{
		Use:   "delete [isbn]",
		Short: "Delete your review for a book",
		Args:  cobra.ExactArgs(1),
		Run:   runDeleteReview, // Defined in cmd_review.go
	}

	reviewsCmd = &cobra.Command{
		Use:   "reviews",
		Short: "Work with review collections",
	}
	myReviewsCmd = &cobra.Command{
		Use:   "mine",
		Short: "List every review you have written, across the whole catalog",
		Run:   runMyReviews, // Defined in cmd_review.go
	}

	// --- Accounts ---
	accountCmd = &cobra.Command{
		Use:   "account",
		Short: "Manage your Marginalia account",
	}
	registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Run:   runRegister, // Defined in cmd_account.go
	}
)

func init() {
	rootCmd.AddCommand(browseCmd)

	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(listBooksCmd)
	booksCmd.AddCommand(searchBooksCmd)
	booksCmd.AddCommand(showBookCmd)
	searchBooksCmd.Flags().StringVar(&searchBy, "by", "title",
		"Search kind: 'title', 'author', or 'isbn'")

	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(addReviewCmd)
	reviewCmd.AddCommand(updateReviewCmd)
	reviewCmd.AddCommand(deleteReviewCmd)
	reviewCmd.PersistentFlags().StringVarP(&username, "username", "u", "",
		"Account name. Prompted for when omitted.")
	deleteReviewCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false,
		"Skip the confirmation prompt")

	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(myReviewsCmd)
	reviewsCmd.PersistentFlags().StringVarP(&username, "username", "u", "",
		"Account name. Prompted for when omitted.")

	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&username, "username", "u", "",
		"Account name. Prompted for when omitted.")
}
