// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
)

func TestExpandFormats(t *testing.T) {
	tests := []struct {
		name     string
		formats  []string
		expected []string
	}{
		{"all", []string{"all"}, []string{"html", "xlsx", "json", "txt"}},
		{"duplicates", []string{"json", "txt", "json"}, []string{"json", "txt"}},
		{"all after one", []string{"txt", "all"}, []string{"txt", "html", "xlsx", "json"}},
		{"none", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandFormats(tt.formats))
		})
	}
}

func TestCreateReports(t *testing.T) {
	outputDir := t.TempDir()
	appContext := app.Context{OutputDir: outputDir, Version: "1.2.3", Timestamp: "2025-01-01_00-00-00"}
	snapshot, err := dashboard.Load("")
	require.NoError(t, err)
	var printed []byte
	paths, err := CreateReports(appContext, snapshot, dashboard.DefaultConfig(), []string{"txt"}, func(b []byte) { printed = b })
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(outputDir, "dashboard.txt")}, paths)
	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, content, printed)
	assert.Contains(t, string(content), "Statistics\n==========\n")
	assert.Contains(t, string(content), "1.2.3")

	printed = nil
	paths, err = CreateReports(appContext, snapshot, dashboard.DefaultConfig(), []string{"all"}, func(b []byte) { printed = b })
	require.NoError(t, err)
	assert.Len(t, paths, 4)
	assert.Nil(t, printed)
	for _, path := range paths {
		assert.FileExists(t, path)
	}
}

func TestCreateReportsBuildError(t *testing.T) {
	snapshot, err := dashboard.Load("")
	require.NoError(t, err)
	cfg := dashboard.DefaultConfig()
	cfg.Filter.SeriesFilter = "(["
	_, err = CreateReports(app.Context{OutputDir: t.TempDir()}, snapshot, cfg, []string{"json"}, nil)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	root := &cobra.Command{Use: "root"}
	child := &cobra.Command{Use: "render"}
	root.AddCommand(child)
	root.SetContext(context.WithValue(context.Background(), app.Context{}, app.Context{OutputDir: outputDir}))
	rc := ReportingCommand{
		Cmd:     child,
		Formats: []string{"json"},
		Config:  dashboard.DefaultConfig(),
	}
	result, err := rc.Run()
	require.NoError(t, err)
	require.Len(t, result.ReportPaths, 1)
	assert.True(t, strings.HasPrefix(result.ReportPaths[0], outputDir))
	samples, _ := result.Snapshot.Totals()
	assert.Equal(t, 104276, samples)

	rc.Input = filepath.Join(t.TempDir(), "missing.json")
	_, err = rc.Run()
	assert.Error(t, err)
	assert.True(t, child.SilenceUsage)
}
