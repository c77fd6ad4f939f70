// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmdash/internal/dashboard"
)

func parseDashboardFlags(t *testing.T, args ...string) (*cobra.Command, *DashboardFlags) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	flags := &DashboardFlags{}
	flags.Add(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, flags
}

func TestDashboardFlagsDefaults(t *testing.T) {
	cmd, flags := parseDashboardFlags(t)
	cfg, _, err := flags.Config(cmd)
	require.NoError(t, err)
	assert.Equal(t, dashboard.DefaultConfig(), cfg)
}

func TestDashboardFlagsOverrideSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "title: From File\nfilter:\n  seriesFilter: Delete\n  showControllersOnly: true\ntables: [apdex]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cmd, flags := parseDashboardFlags(t, "--settings", path, "--series-filter", "Get", "--tables", "errors,statistics,errors")
	cfg, s, err := flags.Config(cmd)
	require.NoError(t, err)
	assert.Equal(t, "From File", s.Title)
	// the file value is kept when the flag is not set
	assert.Equal(t, "From File", cfg.Title)
	assert.True(t, cfg.Filter.ShowControllersOnly)
	// flags set on the command line win
	assert.Equal(t, "Get", cfg.Filter.SeriesFilter)
	tables := slices.Clone(cfg.Tables)
	slices.Sort(tables)
	assert.Equal(t, []string{"errors", "statistics"}, tables)
}

func TestDashboardFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid series filter", []string{"--series-filter", "(["}},
		{"unknown table", []string{"--tables", "latency"}},
		{"missing settings file", []string{"--settings", "does-not-exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, flags := parseDashboardFlags(t, tt.args...)
			_, _, err := flags.Config(cmd)
			assert.Error(t, err)
		})
	}
}
