// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package table turns table descriptors from a results snapshot into rendered tables:
// header rows, an optional summary row and the filtered, formatted body rows.
package table

import (
	"fmt"
	"regexp"
)

// Row is one row of a table descriptor. Values are strings or numbers (float64 when decoded from JSON).
type Row struct {
	Data         []any `json:"data"`
	IsController bool  `json:"isController"`
}

// Descriptor describes a table as found in the snapshot
type Descriptor struct {
	Titles                            []string `json:"titles"`
	Overall                           *Row     `json:"overall,omitempty"`
	Items                             []Row    `json:"items"`
	SupportsControllersDiscrimination bool     `json:"supportsControllersDiscrimination"`
}

// FilterState controls which body rows are rendered
type FilterState struct {
	ShowControllersOnly     bool   `json:"showControllersOnly" yaml:"showControllersOnly" toml:"showControllersOnly"`
	SeriesFilter            string `json:"seriesFilter" yaml:"seriesFilter" toml:"seriesFilter"`
	FiltersOnlySampleSeries bool   `json:"filtersOnlySampleSeries" yaml:"filtersOnlySampleSeries" toml:"filtersOnlySampleSeries"`
}

// DefaultFilterState is the filter state of a freshly loaded dashboard
func DefaultFilterState() FilterState {
	return FilterState{
		ShowControllersOnly:     false,
		SeriesFilter:            "",
		FiltersOnlySampleSeries: true,
	}
}

// Validate returns an error if the series filter is not a valid regular expression
func (f FilterState) Validate() error {
	_, err := newRowFilter(f, true, 0)
	return err
}

// sort directions, same convention as tablesorter's sortList
const (
	Ascending  = 0
	Descending = 1
)

// SortKey is one (column, direction) pair of a sort list
type SortKey struct {
	Column    int
	Direction int
}

// MarshalJSON encodes the key as a [column, direction] pair
func (k SortKey) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, "[%d,%d]", k.Column, k.Direction), nil
}

// Formatter returns the display string for the raw value in the given column
type Formatter func(column int, value any) string

// HeaderCell is a cell in a header row
type HeaderCell struct {
	Label    string
	ColSpan  int
	Sortable bool
}

// HeaderRow is a row in the table header. Rows added by a HeaderDecorator are not sortable.
type HeaderRow struct {
	Cells  []HeaderCell
	NoSort bool
}

// HeaderDecorator returns grouping header rows that are placed above the titles row
type HeaderDecorator func() []HeaderRow

// RenderedRow holds the display strings of a row along with the raw values they came from
type RenderedRow struct {
	Cells  []string
	Values []any
}

// Rendered is a table ready to be written to an output surface
type Rendered struct {
	ID         string
	Name       string
	Titles     []string
	HeaderRows []HeaderRow
	Summary    *RenderedRow
	Body       []RenderedRow
	SortList   []SortKey
}

// Options are the per-table rendering parameters
type Options struct {
	Formatter       Formatter       // optional, identity if nil
	DefaultSort     []SortKey       // initial sort order
	FilterColumn    int             // column tested against the series filter
	HeaderDecorator HeaderDecorator // optional
}

// Render produces the rendered form of the descriptor under the given filter state.
// An invalid series filter pattern is returned as an error and nothing is rendered.
func Render(id string, name string, descriptor Descriptor, opts Options, filter FilterState) (Rendered, error) {
	rf, err := newRowFilter(filter, descriptor.SupportsControllersDiscrimination, opts.FilterColumn)
	if err != nil {
		return Rendered{}, err
	}
	format := opts.Formatter
	if format == nil {
		format = func(_ int, value any) string { return FormatValue(value) }
	}
	rendered := Rendered{
		ID:       id,
		Name:     name,
		Titles:   descriptor.Titles,
		SortList: opts.DefaultSort,
	}
	// decorator rows go first
	if opts.HeaderDecorator != nil {
		for _, row := range opts.HeaderDecorator() {
			row.NoSort = true
			for i := range row.Cells {
				row.Cells[i].Sortable = false
			}
			rendered.HeaderRows = append(rendered.HeaderRows, row)
		}
	}
	titlesRow := HeaderRow{}
	for _, title := range descriptor.Titles {
		titlesRow.Cells = append(titlesRow.Cells, HeaderCell{Label: title, ColSpan: 1, Sortable: true})
	}
	rendered.HeaderRows = append(rendered.HeaderRows, titlesRow)
	// overall row is rendered regardless of the filter state
	if descriptor.Overall != nil {
		summary := formatRow(descriptor.Overall.Data, format)
		rendered.Summary = &summary
	}
	for _, item := range descriptor.Items {
		if !rf.include(item) {
			continue
		}
		if len(item.Data) == 0 {
			continue
		}
		rendered.Body = append(rendered.Body, formatRow(item.Data, format))
	}
	return rendered, nil
}

func formatRow(data []any, format Formatter) RenderedRow {
	row := RenderedRow{
		Cells:  make([]string, 0, len(data)),
		Values: data,
	}
	for col, value := range data {
		row.Cells = append(row.Cells, format(col, value))
	}
	return row
}

type rowFilter struct {
	filter                 FilterState
	supportsDiscrimination bool
	column                 int
	re                     *regexp.Regexp
}

func newRowFilter(filter FilterState, supportsDiscrimination bool, column int) (rowFilter, error) {
	rf := rowFilter{
		filter:                 filter,
		supportsDiscrimination: supportsDiscrimination,
		column:                 column,
	}
	if filter.SeriesFilter != "" {
		re, err := regexp.Compile("(?i)" + filter.SeriesFilter)
		if err != nil {
			return rf, fmt.Errorf("invalid series filter %q: %w", filter.SeriesFilter, err)
		}
		rf.re = re
	}
	return rf, nil
}

func (rf rowFilter) include(item Row) bool {
	return rf.matchesSeries(item) && rf.matchesController(item)
}

// the series filter is bypassed, not applied, when the table cannot tell controllers apart
// and the filter is restricted to sample series
func (rf rowFilter) matchesSeries(item Row) bool {
	if rf.re == nil {
		return true
	}
	if rf.filter.FiltersOnlySampleSeries && !rf.supportsDiscrimination {
		return true
	}
	var value string
	if rf.column >= 0 && rf.column < len(item.Data) {
		value = FormatValue(item.Data[rf.column])
	}
	return rf.re.MatchString(value)
}

func (rf rowFilter) matchesController(item Row) bool {
	return !rf.filter.ShowControllersOnly || !rf.supportsDiscrimination || item.IsController
}
