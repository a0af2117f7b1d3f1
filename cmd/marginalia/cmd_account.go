// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marginalia-reads/marginalia/pkg/ux"
)

func runRegister(cmd *cobra.Command, args []string) {
	user := username
	var password, confirm string

	var fields []huh.Field
	if user == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&user))
	}
	fields = append(fields,
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	)

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		fail(err)
	}

	if strings.TrimSpace(user) == "" || password == "" {
		ux.Error("Please enter both username and password")
		os.Exit(1)
	}
	if password != confirm {
		ux.Error("Passwords do not match")
		os.Exit(1)
	}

	result, err := client.Register(context.Background(), user, password)
	if err != nil {
		fail(err)
	}
	printMutationResult(result)
}
