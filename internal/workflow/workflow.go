// Package workflow implements the common flow/logic for reporting commands.
// It loads the snapshot, builds the dashboard document, and writes the reports.
package workflow

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
	"jmdash/internal/report"
	"jmdash/internal/util"
)

// ReportingCommand represents a command that generates reports from a snapshot.
type ReportingCommand struct {
	Cmd     *cobra.Command
	Input   string // snapshot file, the embedded snapshot is used if empty
	Formats []string
	Config  dashboard.Config
	// PrintReport is called with the text report when txt is the only format
	PrintReport func([]byte)
}

// Result describes the reports written by Run
type Result struct {
	Snapshot    dashboard.Snapshot
	ReportPaths []string
}

// Run is the common flow/logic for reporting commands. The commands populate the
// ReportingCommand struct and then call this Run function.
func (rc *ReportingCommand) Run() (Result, error) {
	// appContext is the application context that holds common data and resources.
	appContext := rc.Cmd.Parent().Context().Value(app.Context{}).(app.Context)
	// create output directory
	err := util.CreateDirectoryIfNotExists(appContext.OutputDir, 0755) // #nosec G301
	if err != nil {
		err = fmt.Errorf("failed to create output directory: %w", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return Result{}, err
	}
	snapshot, err := dashboard.Load(rc.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return Result{}, err
	}
	reportPaths, err := CreateReports(appContext, snapshot, rc.Config, rc.Formats, rc.PrintReport)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		rc.Cmd.SilenceUsage = true
		return Result{}, err
	}
	return Result{Snapshot: snapshot, ReportPaths: reportPaths}, nil
}

// ExpandFormats replaces "all" with every format and removes duplicates, keeping the order
func ExpandFormats(formats []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	expanded := []string{}
	for _, format := range formats {
		candidates := []string{format}
		if format == report.FormatAll {
			candidates = report.FormatOptions
		}
		for _, candidate := range candidates {
			if seen.Add(candidate) {
				expanded = append(expanded, candidate)
			}
		}
	}
	return expanded
}
