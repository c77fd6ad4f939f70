// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
	"jmdash/internal/settings"
	"jmdash/internal/table"
)

// DashboardFlags are the input, settings and row filter flags shared by the commands that
// build a dashboard
type DashboardFlags struct {
	Input                   string
	Settings                string
	Title                   string
	ShowControllersOnly     bool
	SeriesFilter            string
	FiltersOnlySampleSeries bool
	Tables                  []string
}

// Add registers the flags on the command
func (f *DashboardFlags) Add(cmd *cobra.Command) {
	defaults := table.DefaultFilterState()
	cmd.Flags().StringVar(&f.Input, app.FlagInputName, "", "")
	cmd.Flags().StringVar(&f.Settings, app.FlagSettingsName, "", "")
	cmd.Flags().StringVar(&f.Title, app.FlagTitleName, dashboard.DefaultTitle, "")
	cmd.Flags().BoolVar(&f.ShowControllersOnly, app.FlagControllersOnlyName, defaults.ShowControllersOnly, "")
	cmd.Flags().StringVar(&f.SeriesFilter, app.FlagSeriesFilterName, defaults.SeriesFilter, "")
	cmd.Flags().BoolVar(&f.FiltersOnlySampleSeries, app.FlagFiltersOnlySampleSeriesName, defaults.FiltersOnlySampleSeries, "")
	cmd.Flags().StringSliceVar(&f.Tables, app.FlagTablesName, []string{}, "")
}

// FlagGroups returns the help text for the flags, grouped for the usage output
func (f *DashboardFlags) FlagGroups() []app.FlagGroup {
	return []app.FlagGroup{
		{
			GroupName: "Filters",
			Flags: []app.Flag{
				{Name: app.FlagSeriesFilterName, Help: "show only the series whose label matches this regular expression (case-insensitive)"},
				{Name: app.FlagControllersOnlyName, Help: "show only transaction controllers in tables that can tell them apart"},
				{Name: app.FlagFiltersOnlySampleSeriesName, Help: "apply the series filter only to tables that can tell controllers apart"},
				{Name: app.FlagTablesName, Help: fmt.Sprintf("choose table(s) from: %s", strings.Join(dashboard.TableNames, ", "))},
			},
		},
		{
			GroupName: "Input Options",
			Flags: []app.Flag{
				{Name: app.FlagInputName, Help: "results snapshot JSON file, the bundled sample snapshot is used if not set"},
				{Name: app.FlagSettingsName, Help: "YAML or TOML settings file with the title, filters, tables and insight rules"},
				{Name: app.FlagTitleName, Help: "report title"},
			},
		},
	}
}

// Config builds the dashboard configuration. Values from the settings file replace the
// defaults, flags set on the command line replace both.
func (f *DashboardFlags) Config(cmd *cobra.Command) (dashboard.Config, settings.Settings, error) {
	cfg := dashboard.DefaultConfig()
	var s settings.Settings
	if f.Settings != "" {
		var err error
		s, err = settings.Load(f.Settings)
		if err != nil {
			return cfg, s, err
		}
		s.Apply(&cfg)
	}
	flags := cmd.Flags()
	if flags.Changed(app.FlagTitleName) {
		cfg.Title = f.Title
	}
	if flags.Changed(app.FlagControllersOnlyName) {
		cfg.Filter.ShowControllersOnly = f.ShowControllersOnly
	}
	if flags.Changed(app.FlagSeriesFilterName) {
		cfg.Filter.SeriesFilter = f.SeriesFilter
	}
	if flags.Changed(app.FlagFiltersOnlySampleSeriesName) {
		cfg.Filter.FiltersOnlySampleSeries = f.FiltersOnlySampleSeries
	}
	if flags.Changed(app.FlagTablesName) {
		// duplicates are dropped, the report order comes from the table definitions
		cfg.Tables = mapset.NewSet(f.Tables...).ToSlice()
	}
	if err := dashboard.ValidateTables(cfg.Tables); err != nil {
		return cfg, s, err
	}
	if err := cfg.Filter.Validate(); err != nil {
		return cfg, s, err
	}
	return cfg, s, nil
}
