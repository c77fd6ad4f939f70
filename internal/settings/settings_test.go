package settings

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmdash/internal/dashboard"
)

func writeSettings(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const yamlSettings = `
title: Nightly Run
formats: [html, json]
filter:
  seriesFilter: "^Get"
  filtersOnlySampleSeries: false
tables: [statistics, errors]
insights:
  - name: Slow
    expression: "median > 250"
    recommendation: Check the database.
`

const tomlSettings = `
title = "Nightly Run"
formats = ["html", "json"]
tables = ["statistics", "errors"]

[filter]
seriesFilter = "^Get"
filtersOnlySampleSeries = false

[[insights]]
name = "Slow"
expression = "median > 250"
recommendation = "Check the database."
`

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "settings.yaml", yamlSettings},
		{"yml", "settings.yml", yamlSettings},
		{"toml", "settings.toml", tomlSettings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(writeSettings(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "Nightly Run", s.Title)
			assert.Equal(t, []string{"html", "json"}, s.Formats)
			assert.Equal(t, []string{"statistics", "errors"}, s.Tables)
			assert.Nil(t, s.Filter.ShowControllersOnly)
			require.NotNil(t, s.Filter.SeriesFilter)
			assert.Equal(t, "^Get", *s.Filter.SeriesFilter)
			require.NotNil(t, s.Filter.FiltersOnlySampleSeries)
			assert.False(t, *s.Filter.FiltersOnlySampleSeries)
			assert.Equal(t, []dashboard.InsightRule{{Name: "Slow", Expression: "median > 250", Recommendation: "Check the database."}}, s.Insights)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown yaml key", "s.yaml", "colour: red\n"},
		{"unknown toml key", "s.toml", "colour = \"red\"\n"},
		{"bad extension", "s.json", "{}"},
		{"bad format", "s.yaml", "formats: [pdf]\n"},
		{"bad table", "s.yaml", "tables: [latency]\n"},
		{"rule without expression", "s.yaml", "insights:\n  - name: empty\n"},
		{"malformed yaml", "s.yaml", "title: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeSettings(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	s, err := Load(writeSettings(t, "settings.yaml", yamlSettings))
	require.NoError(t, err)
	cfg := dashboard.DefaultConfig()
	s.Apply(&cfg)
	assert.Equal(t, "Nightly Run", cfg.Title)
	assert.False(t, cfg.Filter.ShowControllersOnly)
	assert.Equal(t, "^Get", cfg.Filter.SeriesFilter)
	assert.False(t, cfg.Filter.FiltersOnlySampleSeries)
	assert.Equal(t, []string{"statistics", "errors"}, cfg.Tables)
	assert.Len(t, cfg.Insights, 1)
}

func TestApplyKeepsDefaults(t *testing.T) {
	s, err := Load(writeSettings(t, "settings.yaml", "title: Only The Title\n"))
	require.NoError(t, err)
	cfg := dashboard.DefaultConfig()
	s.Apply(&cfg)
	assert.Equal(t, "Only The Title", cfg.Title)
	assert.True(t, cfg.Filter.FiltersOnlySampleSeries)
	assert.Empty(t, cfg.Tables)
	assert.Nil(t, cfg.Insights)
}

func TestApplyDisablesInsights(t *testing.T) {
	s, err := Load(writeSettings(t, "settings.yaml", "insights: []\n"))
	require.NoError(t, err)
	cfg := dashboard.DefaultConfig()
	s.Apply(&cfg)
	assert.NotNil(t, cfg.Insights)
	assert.Empty(t, cfg.Insights)
}
