// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
	"jmdash/internal/report"
	"jmdash/internal/table"
)

// ReportBaseName is the file name, without extension, of the generated reports
const ReportBaseName = "dashboard"

// writeReport writes the report bytes to the specified path.
func writeReport(reportBytes []byte, reportPath string) error {
	err := os.WriteFile(reportPath, reportBytes, 0644) // #nosec G306
	if err != nil {
		err = fmt.Errorf("failed to write report file: %v", err)
		fmt.Fprintln(os.Stderr, err)
		slog.Error(err.Error())
		return err
	}
	return nil
}

// CreateReports builds the dashboard document and writes one report per format into the
// output directory. It returns the paths of the report files.
func CreateReports(appContext app.Context, snapshot dashboard.Snapshot, cfg dashboard.Config, formats []string, printReport func([]byte)) ([]string, error) {
	doc, err := dashboard.Build(snapshot, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	// special case - add a table for the application version
	appTable, err := appInfoTable(appContext)
	if err != nil {
		return nil, err
	}
	doc.Tables = append(doc.Tables, appTable)
	formats = ExpandFormats(formats)
	reportFilePaths := []string{}
	for _, format := range formats {
		reportBytes, err := report.Create(format, doc)
		if err != nil {
			err = fmt.Errorf("failed to create report: %w", err)
			return nil, err
		}
		if len(formats) == 1 && format == report.FormatTxt && printReport != nil {
			printReport(reportBytes)
		}
		reportFilename := fmt.Sprintf("%s.%s", ReportBaseName, format)
		reportPath := filepath.Join(appContext.OutputDir, reportFilename)
		if err = writeReport(reportBytes, reportPath); err != nil {
			err = fmt.Errorf("failed to write report: %w", err)
			return nil, err
		}
		slog.Info("wrote report", slog.String("format", format), slog.String("path", reportPath))
		reportFilePaths = append(reportFilePaths, reportPath)
	}
	return reportFilePaths, nil
}

func appInfoTable(appContext app.Context) (table.Rendered, error) {
	descriptor := table.Descriptor{
		Titles: []string{"Field", "Value"},
		Items: []table.Row{
			{Data: []any{"Version", appContext.Version}},
			{Data: []any{"Args", strings.Join(os.Args, " ")}},
			{Data: []any{"OutputDir", appContext.OutputDir}},
			{Data: []any{"Timestamp", appContext.Timestamp}},
		},
	}
	return table.Render("appTable", app.TableNameJmdash, descriptor, table.Options{}, table.DefaultFilterState())
}
