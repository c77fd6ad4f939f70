// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package dashboard holds the results snapshot of a load test and the definitions of the
// dashboard tables built from it: APDEX, statistics, errors and top 5 errors by sampler.
package dashboard

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"

	"jmdash/internal/report"
	"jmdash/internal/table"
	"jmdash/internal/util"
)

//go:embed snapshot.json
var embeddedSnapshot []byte

// DefaultTitle is used when no report title is configured
const DefaultTitle = "Load Test Dashboard"

// RequestsSummary is the overall split of passed and failed samples
type RequestsSummary struct {
	OkPercent float64 `json:"OkPercent"`
	KoPercent float64 `json:"KoPercent"`
}

// Snapshot is the complete set of results the dashboard is built from
type Snapshot struct {
	RequestsSummary     RequestsSummary   `json:"requestsSummary"`
	Apdex               *table.Descriptor `json:"apdex"`
	Statistics          *table.Descriptor `json:"statistics"`
	Errors              *table.Descriptor `json:"errors,omitempty"`
	Top5ErrorsBySampler *table.Descriptor `json:"top5ErrorsBySampler,omitempty"`
}

// Load reads the snapshot at path, or the embedded snapshot if path is empty
func Load(path string) (Snapshot, error) {
	if path == "" {
		return Parse(embeddedSnapshot)
	}
	absPath, err := util.AbsPath(path)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "failed to expand snapshot path %s", path)
	}
	data, err := os.ReadFile(absPath) // #nosec G304
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to read snapshot")
	}
	slog.Debug("loaded snapshot", slog.String("path", absPath), slog.Int("bytes", len(data)))
	return Parse(data)
}

// Parse validates and decodes a snapshot document
func Parse(data []byte) (Snapshot, error) {
	if err := validateSnapshot(data); err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to unmarshal snapshot JSON")
	}
	return snapshot, nil
}

// Totals returns the number of samples and failed samples from the statistics overall row
func (s Snapshot) Totals() (samples int, failures int) {
	if s.Statistics == nil || s.Statistics.Overall == nil || len(s.Statistics.Overall.Data) < 3 {
		return
	}
	if n, ok := s.Statistics.Overall.Data[1].(float64); ok {
		samples = int(n)
	}
	if n, ok := s.Statistics.Overall.Data[2].(float64); ok {
		failures = int(n)
	}
	return
}

// Table keys used to select tables
const (
	TableApdex      = "apdex"
	TableStatistics = "statistics"
	TableErrors     = "errors"
	TableTop5Errors = "top5"
)

// TableNames lists the selectable tables in the order they appear in a report
var TableNames = []string{TableApdex, TableStatistics, TableErrors, TableTop5Errors}

const (
	InsightsTableID   = "insightsTable"
	InsightsTableName = "Insights"
)

type tableDefinition struct {
	Key        string
	ID         string
	Name       string
	Options    table.Options
	Descriptor func(Snapshot) *table.Descriptor
}

var tableDefinitions = []tableDefinition{
	{
		Key:  TableApdex,
		ID:   "apdexTable",
		Name: "APDEX (Application Performance Index)",
		Options: table.Options{
			Formatter:    apdexFormatter,
			DefaultSort:  []table.SortKey{{Column: 0, Direction: table.Ascending}},
			FilterColumn: 3,
		},
		Descriptor: func(s Snapshot) *table.Descriptor { return s.Apdex },
	},
	{
		Key:  TableStatistics,
		ID:   "statisticsTable",
		Name: "Statistics",
		Options: table.Options{
			Formatter:       statisticsFormatter,
			DefaultSort:     []table.SortKey{{Column: 0, Direction: table.Ascending}},
			FilterColumn:    0,
			HeaderDecorator: statisticsHeader,
		},
		Descriptor: func(s Snapshot) *table.Descriptor { return s.Statistics },
	},
	{
		Key:  TableErrors,
		ID:   "errorsTable",
		Name: "Errors",
		Options: table.Options{
			Formatter:    errorsFormatter,
			DefaultSort:  []table.SortKey{{Column: 1, Direction: table.Descending}},
			FilterColumn: 0,
		},
		Descriptor: func(s Snapshot) *table.Descriptor { return s.Errors },
	},
	{
		Key:  TableTop5Errors,
		ID:   "top5ErrorsBySamplerTable",
		Name: "Top 5 Errors by sampler",
		Options: table.Options{
			DefaultSort:  []table.SortKey{{Column: 0, Direction: table.Ascending}},
			FilterColumn: 0,
		},
		Descriptor: func(s Snapshot) *table.Descriptor { return s.Top5ErrorsBySampler },
	},
}

func apdexFormatter(column int, value any) string {
	switch column {
	case 0:
		return table.ToFixed(value, 3)
	case 1, 2:
		return table.FormatDuration(value)
	}
	return table.FormatValue(value)
}

func statisticsFormatter(column int, value any) string {
	switch column {
	case 3: // error percentage
		return table.ToFixedPercent(value, 2)
	case 4, 7, 8, 9, 10, 11, 12, 13: // mean, median, percentiles, throughput, received and sent KB/s
		return table.ToFixed(value, 2)
	}
	return table.FormatValue(value)
}

func errorsFormatter(column int, value any) string {
	switch column {
	case 2, 3:
		return table.ToFixedPercent(value, 2)
	}
	return table.FormatValue(value)
}

// statisticsHeader groups the statistics columns by category
func statisticsHeader() []table.HeaderRow {
	return []table.HeaderRow{{Cells: []table.HeaderCell{
		{Label: "Requests", ColSpan: 1},
		{Label: "Executions", ColSpan: 3},
		{Label: "Response Times (ms)", ColSpan: 7},
		{Label: "Throughput", ColSpan: 1},
		{Label: "Network (KB/sec)", ColSpan: 2},
	}}}
}

// Config selects what goes into a document and how rows are filtered
type Config struct {
	Title    string
	Filter   table.FilterState
	Tables   []string      // table keys, all tables if empty
	Insights []InsightRule // nil selects DefaultInsightRules, an empty slice disables insights
}

// DefaultConfig returns the configuration of a freshly loaded dashboard
func DefaultConfig() Config {
	return Config{
		Title:  DefaultTitle,
		Filter: table.DefaultFilterState(),
	}
}

// ValidateTables returns an error naming any table keys that are not known
func ValidateTables(keys []string) error {
	known := mapset.NewSet(TableNames...)
	unknown := mapset.NewSet(keys...).Difference(known)
	if unknown.Cardinality() > 0 {
		names := unknown.ToSlice()
		slices.Sort(names)
		return fmt.Errorf("unknown table(s): %s, expected one or more of %s", strings.Join(names, ", "), strings.Join(TableNames, ", "))
	}
	return nil
}

// Build renders the snapshot into a report document. Every call renders from scratch.
func Build(s Snapshot, cfg Config) (report.Document, error) {
	if err := ValidateTables(cfg.Tables); err != nil {
		return report.Document{}, err
	}
	selected := mapset.NewSet(cfg.Tables...)
	if len(cfg.Tables) == 0 {
		selected = mapset.NewSet(TableNames...)
	}
	rules := cfg.Insights
	if rules == nil {
		rules = DefaultInsightRules
	}
	insights, err := compileInsightRules(rules)
	if err != nil {
		return report.Document{}, err
	}
	doc := report.Document{
		Title: cfg.Title,
		Chart: RequestsSummaryChart(s.RequestsSummary),
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	for _, def := range tableDefinitions {
		if !selected.Contains(def.Key) {
			continue
		}
		descriptor := def.Descriptor(s)
		if descriptor == nil {
			slog.Debug("table not present in snapshot", slog.String("table", def.Key))
			continue
		}
		rendered, err := table.Render(def.ID, def.Name, *descriptor, def.Options, cfg.Filter)
		if err != nil {
			return report.Document{}, fmt.Errorf("failed to render %s table: %w", def.Key, err)
		}
		doc.Tables = append(doc.Tables, rendered)
	}
	if len(insights) > 0 {
		descriptor := evaluateInsights(s, insights)
		rendered, err := table.Render(InsightsTableID, InsightsTableName, descriptor, table.Options{FilterColumn: 0}, cfg.Filter)
		if err != nil {
			return report.Document{}, fmt.Errorf("failed to render insights table: %w", err)
		}
		doc.Tables = append(doc.Tables, rendered)
	}
	return doc, nil
}

// RequestsSummaryChart builds the PASS/FAIL pie chart, FAIL first, with percentages rounded to two decimals
func RequestsSummaryChart(summary RequestsSummary) *report.PieChart {
	pieSlices := []report.PieSlice{
		{Label: "FAIL", Value: summary.KoPercent, Color: "#FF6347"},
		{Label: "PASS", Value: summary.OkPercent, Color: "#9ACD32"},
	}
	total := summary.KoPercent + summary.OkPercent
	for i := range pieSlices {
		if total > 0 {
			pieSlices[i].Percent = util.Round10(pieSlices[i].Value/total*100, -2)
		}
	}
	return &report.PieChart{
		ID:     "flot-requests-summary",
		Name:   "Requests Summary",
		Slices: pieSlices,
	}
}
