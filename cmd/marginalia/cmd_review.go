// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marginalia-reads/marginalia/pkg/ux"
)

// login prompts for whatever credentials the flags did not supply,
// authenticates, and stores the session. The password is never
// accepted as a flag so it cannot leak into shell history.
func login(ctx context.Context) error {
	user := username
	var password string

	var fields []huh.Field
	if user == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&user))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	if strings.TrimSpace(user) == "" || password == "" {
		return errors.New("Please enter both username and password")
	}

	token, err := client.Login(ctx, user, password)
	if err != nil {
		return err
	}
	return sess.Login(user, token)
}

func runAddReview(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	isbn := args[0]
	text := strings.Join(args[1:], " ")

	if err := login(ctx); err != nil {
		fail(err)
	}
	token, err := sess.Token()
	if err != nil {
		fail(err)
	}

	result, err := client.AddReview(ctx, isbn, text, token)
	if err != nil {
		fail(err)
	}
	printMutationResult(result)
	showReviewsAfterMutation(ctx, isbn)
}

func runUpdateReview(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	isbn := args[0]
	text := strings.Join(args[1:], " ")

	if err := login(ctx); err != nil {
		fail(err)
	}
	token, err := sess.Token()
	if err != nil {
		fail(err)
	}

	result, err := client.UpdateReview(ctx, isbn, text, token)
	if err != nil {
		fail(err)
	}
	printMutationResult(result)
	showReviewsAfterMutation(ctx, isbn)
}

// showReviewsAfterMutation prints the authoritative review list after a
// mutation. The receipt alone does not prove what the server stored.
func showReviewsAfterMutation(ctx context.Context, isbn string) {
	reviews, err := client.GetReviews(ctx, isbn)
	if err != nil {
		ux.Warning("could not re-fetch reviews: " + err.Error())
		return
	}
	ux.Title("Reviews")
	printReviews(reviews)
}

func runDeleteReview(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	isbn := args[0]

	if !assumeYes {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete your review of %s?", isbn)).
			Affirmative("Delete").
			Negative("Keep it").
			Value(&confirmed)
		if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
			fail(err)
		}
		if !confirmed {
			ux.Muted("Nothing deleted")
			return
		}
	}

	if err := login(ctx); err != nil {
		fail(err)
	}
	token, err := sess.Token()
	if err != nil {
		fail(err)
	}

	result, err := client.DeleteReview(ctx, isbn, token)
	if err != nil {
		fail(err)
	}
	printMutationResult(result)
	showReviewsAfterMutation(ctx, isbn)
}

func runMyReviews(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if err := login(ctx); err != nil {
		fail(err)
	}

	items, err := client.FindUserReviews(ctx, sess.Username())
	if err != nil {
		fail(err)
	}

	ux.Title("Your reviews")
	if len(items) == 0 {
		ux.Muted("You have not submitted any reviews yet.")
		return
	}
	for _, item := range items {
		if ux.Plain {
			fmt.Printf("%s\t%s\t%s\n", item.ISBN, item.Book.Title, item.Review.Text)
			continue
		}
		content := ux.Styles.Subtitle.Render("by "+item.Book.Author) + "\n" + item.Review.Text
		ux.Box(string(ux.IconBook)+" "+item.Book.Title, content)
	}
}
