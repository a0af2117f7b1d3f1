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

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/marginalia-reads/marginalia/cmd/marginalia/tui"
)

// runBrowse starts the full-screen catalog browser. It refuses to run
// without a terminal since the alternate screen would be meaningless
// in a pipe.
func runBrowse(cmd *cobra.Command, args []string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "browse needs an interactive terminal; try 'marginalia books list' instead")
		os.Exit(1)
	}

	appLogger.Info("starting interactive browser")
	model := tui.New(client, sess, appLogger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		appLogger.Error("browser exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "browser error: %v\n", err)
		os.Exit(1)
	}
}
