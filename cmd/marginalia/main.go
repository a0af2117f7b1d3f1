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
	"time"

	"github.com/spf13/cobra"

	"github.com/marginalia-reads/marginalia/cmd/marginalia/config"
	"github.com/marginalia-reads/marginalia/pkg/bookclub"
	"github.com/marginalia-reads/marginalia/pkg/logging"
	"github.com/marginalia-reads/marginalia/pkg/session"
)

// Shared by every command, built in PersistentPreRun.
var (
	appLogger *logging.Logger
	client    *bookclub.Client
	sess      *session.State
)

func main() {
	defer func() {
		if appLogger != nil {
			appLogger.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if err := config.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
			os.Exit(1)
		}
		cfg := config.Global

		// The interactive browser owns the terminal, so stderr logging
		// is silenced for it and everything goes to the log file.
		appLogger = logging.New(logging.Config{
			Level:   logging.ParseLevel(cfg.Logging.Level),
			LogDir:  cfg.Logging.Dir,
			Service: cmd.Name(),
			Quiet:   cmd.Name() == "browse",
		})

		client = bookclub.NewClient(cfg.API.BaseURL, appLogger,
			bookclub.WithTimeout(time.Duration(cfg.API.TimeoutSeconds)*time.Second),
			bookclub.WithAggregatorLimits(cfg.Aggregator.Workers, cfg.Aggregator.RequestsPerSecond),
		)
		sess = session.New()
	}
}
