// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(&cfg), "shipped defaults must validate")

	assert.Equal(t, "https://express-book-reviews-beta.vercel.app", cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 4, cfg.Aggregator.Workers)
	assert.InDelta(t, 8.0, cfg.Aggregator.RequestsPerSecond, 0.001)
}

func TestDefaultConfig_RoundTripsThroughYAML(t *testing.T) {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var loaded MarginaliaConfig
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, cfg, loaded)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MarginaliaConfig)
	}{
		{"missing base url", func(c *MarginaliaConfig) { c.API.BaseURL = "" }},
		{"not a url", func(c *MarginaliaConfig) { c.API.BaseURL = "not a url" }},
		{"zero timeout", func(c *MarginaliaConfig) { c.API.TimeoutSeconds = 0 }},
		{"huge timeout", func(c *MarginaliaConfig) { c.API.TimeoutSeconds = 301 }},
		{"bad log level", func(c *MarginaliaConfig) { c.Logging.Level = "verbose" }},
		{"zero workers", func(c *MarginaliaConfig) { c.Aggregator.Workers = 0 }},
		{"too many workers", func(c *MarginaliaConfig) { c.Aggregator.Workers = 64 }},
		{"zero rate", func(c *MarginaliaConfig) { c.Aggregator.RequestsPerSecond = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MARGINALIA_API_URL", "http://localhost:5000")
	t.Setenv("MARGINALIA_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, Validate(&cfg), "env-overridden config must still validate")
}

func TestApplyEnvOverrides_EmptyEnvKeepsFileValues(t *testing.T) {
	t.Setenv("MARGINALIA_API_URL", "")
	t.Setenv("MARGINALIA_LOG_LEVEL", "")

	cfg := DefaultConfig()
	applyEnvOverrides(&cfg)

	assert.Equal(t, DefaultConfig(), cfg)
}
