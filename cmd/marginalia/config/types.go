// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

// MarginaliaConfig is the on-disk configuration, read once at startup
// from ~/.marginalia/marginalia.yaml. The service base URL is fixed for
// the lifetime of the process.
type MarginaliaConfig struct {
	// API: where the book-review service lives and how long to wait.
	API APIConfig `yaml:"api"`

	// Logging: level and optional log directory.
	Logging LogConfig `yaml:"logging"`

	// Aggregator: fan-out limits for the my-reviews catalog scan.
	Aggregator AggregatorConfig `yaml:"aggregator"`
}

type APIConfig struct {
	// BaseURL of the review service, no trailing slash. Overridable
	// with MARGINALIA_API_URL.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// TimeoutSeconds per request. e.g. 30
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1,lte=300"`
}

type LogConfig struct {
	// Level: debug, info, warn, or error.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Dir enables file logging when set. e.g. ~/.marginalia/logs
	Dir string `yaml:"dir"`
}

type AggregatorConfig struct {
	// Workers bounds concurrent review fetches during the scan.
	Workers int `yaml:"workers" validate:"gte=1,lte=32"`

	// RequestsPerSecond throttles the scan.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0,lte=100"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() MarginaliaConfig {
	return MarginaliaConfig{
		API: APIConfig{
			BaseURL:        "https://express-book-reviews-beta.vercel.app",
			TimeoutSeconds: 30,
		},
		Logging: LogConfig{
			Level: "info",
			Dir:   "~/.marginalia/logs",
		},
		Aggregator: AggregatorConfig{
			Workers:           4,
			RequestsPerSecond: 8,
		},
	}
}
