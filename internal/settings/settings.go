// Package settings loads dashboard settings from a YAML or TOML file.
package settings

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"jmdash/internal/dashboard"
	"jmdash/internal/report"
	"jmdash/internal/util"
)

// Filter holds the row filter settings. Fields are pointers so that a value
// left out of the file keeps the default.
type Filter struct {
	ShowControllersOnly     *bool   `yaml:"showControllersOnly" toml:"showControllersOnly"`
	SeriesFilter            *string `yaml:"seriesFilter" toml:"seriesFilter"`
	FiltersOnlySampleSeries *bool   `yaml:"filtersOnlySampleSeries" toml:"filtersOnlySampleSeries"`
}

// Settings is the content of a settings file
type Settings struct {
	Title    string                  `yaml:"title" toml:"title"`
	Formats  []string                `yaml:"formats" toml:"formats"`
	Filter   Filter                  `yaml:"filter" toml:"filter"`
	Tables   []string                `yaml:"tables" toml:"tables"`
	Insights []dashboard.InsightRule `yaml:"insights" toml:"insights"` // an empty list disables insights
}

// Load reads the settings file at path. The format is chosen by the file extension:
// .yaml/.yml or .toml.
func Load(path string) (Settings, error) {
	absPath, err := util.AbsPath(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to expand settings path %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath) // #nosec G304
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	var s Settings
	switch ext := strings.ToLower(filepath.Ext(absPath)); ext {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &s)
		if err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			return Settings{}, fmt.Errorf("unknown settings in %s: %s", path, strings.Join(keys, ", "))
		}
	default:
		return Settings{}, fmt.Errorf("unsupported settings file extension %q, expected .yaml, .yml or .toml", ext)
	}
	if err := s.validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	slog.Debug("loaded settings", slog.String("path", absPath))
	return s, nil
}

func (s Settings) validate() error {
	for _, format := range s.Formats {
		if format != report.FormatAll && !slices.Contains(report.FormatOptions, format) {
			return fmt.Errorf("format options are: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", "))
		}
	}
	if err := dashboard.ValidateTables(s.Tables); err != nil {
		return err
	}
	for i, rule := range s.Insights {
		if rule.Name == "" || rule.Expression == "" {
			return fmt.Errorf("insight rule %d requires a name and an expression", i+1)
		}
	}
	return nil
}

// Apply overrides the configuration with the values present in the settings
func (s Settings) Apply(cfg *dashboard.Config) {
	if s.Title != "" {
		cfg.Title = s.Title
	}
	if s.Filter.ShowControllersOnly != nil {
		cfg.Filter.ShowControllersOnly = *s.Filter.ShowControllersOnly
	}
	if s.Filter.SeriesFilter != nil {
		cfg.Filter.SeriesFilter = *s.Filter.SeriesFilter
	}
	if s.Filter.FiltersOnlySampleSeries != nil {
		cfg.Filter.FiltersOnlySampleSeries = *s.Filter.FiltersOnlySampleSeries
	}
	if len(s.Tables) > 0 {
		cfg.Tables = s.Tables
	}
	if s.Insights != nil {
		cfg.Insights = s.Insights
	}
}
