// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingDescriptor() Descriptor {
	return Descriptor{
		Titles:                            []string{"Label", "#Samples", "FAIL"},
		Overall:                           &Row{Data: []any{"Total", 62543.0, 132.0}},
		SupportsControllersDiscrimination: true,
		Items: []Row{
			{Data: []any{"GetBooking", 20857.0, 28.0}},
			{Data: []any{"DeleteBooking", 20808.0, 97.0}},
			{Data: []any{}},
			{Data: []any{"Checkout Flow", 20878.0, 7.0}, IsController: true},
		},
	}
}

func bodyLabels(r Rendered) []string {
	labels := []string{}
	for _, row := range r.Body {
		labels = append(labels, row.Cells[0])
	}
	return labels
}

func TestRenderFilters(t *testing.T) {
	tests := []struct {
		name     string
		filter   FilterState
		supports bool
		expected []string
	}{
		{
			name:     "no filters keeps every non-empty row in order",
			filter:   FilterState{},
			supports: true,
			expected: []string{"GetBooking", "DeleteBooking", "Checkout Flow"},
		},
		{
			name:     "series filter matches case-insensitively",
			filter:   FilterState{SeriesFilter: "get"},
			supports: true,
			expected: []string{"GetBooking"},
		},
		{
			name:     "series filter with no match",
			filter:   FilterState{SeriesFilter: "^Nothing$"},
			supports: true,
			expected: []string{},
		},
		{
			name:     "series filter bypassed when only sample series are filtered and no discrimination",
			filter:   FilterState{SeriesFilter: "^Nothing$", FiltersOnlySampleSeries: true},
			supports: false,
			expected: []string{"GetBooking", "DeleteBooking", "Checkout Flow"},
		},
		{
			name:     "series filter applied to every table when not limited to sample series",
			filter:   FilterState{SeriesFilter: "Booking$", FiltersOnlySampleSeries: false},
			supports: false,
			expected: []string{"GetBooking", "DeleteBooking"},
		},
		{
			name:     "series filter applied when discrimination is supported",
			filter:   FilterState{SeriesFilter: "Booking$", FiltersOnlySampleSeries: true},
			supports: true,
			expected: []string{"GetBooking", "DeleteBooking"},
		},
		{
			name:     "controllers only",
			filter:   FilterState{ShowControllersOnly: true},
			supports: true,
			expected: []string{"Checkout Flow"},
		},
		{
			name:     "controllers only ignored without discrimination",
			filter:   FilterState{ShowControllersOnly: true},
			supports: false,
			expected: []string{"GetBooking", "DeleteBooking", "Checkout Flow"},
		},
		{
			name:     "both filters",
			filter:   FilterState{ShowControllersOnly: true, SeriesFilter: "get"},
			supports: true,
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			descriptor := bookingDescriptor()
			descriptor.SupportsControllersDiscrimination = tt.supports
			rendered, err := Render("statisticsTable", "Statistics", descriptor, Options{FilterColumn: 0}, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, bodyLabels(rendered))
			assert.LessOrEqual(t, len(rendered.Body), len(descriptor.Items))
			// the overall row does not depend on the filter state
			require.NotNil(t, rendered.Summary)
			assert.Equal(t, []string{"Total", "62543", "132"}, rendered.Summary.Cells)
		})
	}
}

func TestRenderSeriesFilterExamples(t *testing.T) {
	descriptor := Descriptor{
		Titles:                            []string{"Label", "#Samples", "FAIL"},
		SupportsControllersDiscrimination: true,
		Items:                             []Row{{Data: []any{"GetBooking", 20857.0, 28.0}}},
	}
	rendered, err := Render("t", "t", descriptor, Options{}, FilterState{SeriesFilter: "Get"})
	require.NoError(t, err)
	assert.Len(t, rendered.Body, 1)

	rendered, err = Render("t", "t", descriptor, Options{}, FilterState{SeriesFilter: "Delete"})
	require.NoError(t, err)
	assert.Empty(t, rendered.Body)
}

func TestRenderInvalidSeriesFilter(t *testing.T) {
	descriptor := bookingDescriptor()
	_, err := Render("t", "t", descriptor, Options{}, FilterState{SeriesFilter: "(["})
	require.Error(t, err)
	// the pattern is compiled even when the filter would be bypassed
	descriptor.SupportsControllersDiscrimination = false
	_, err = Render("t", "t", descriptor, Options{}, FilterState{SeriesFilter: "([", FiltersOnlySampleSeries: true})
	require.Error(t, err)
}

func TestRenderFormatterOnlyCalledForIncludedRows(t *testing.T) {
	calls := map[string]int{}
	formatter := func(column int, value any) string {
		if column == 0 {
			calls[FormatValue(value)]++
		}
		return FormatValue(value)
	}
	_, err := Render("t", "t", bookingDescriptor(), Options{Formatter: formatter}, FilterState{SeriesFilter: "Delete"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Total": 1, "DeleteBooking": 1}, calls)
}

func TestRenderHeaders(t *testing.T) {
	decorator := func() []HeaderRow {
		return []HeaderRow{{Cells: []HeaderCell{
			{Label: "Requests", ColSpan: 1, Sortable: true},
			{Label: "Executions", ColSpan: 2},
		}}}
	}
	descriptor := bookingDescriptor()
	descriptor.Overall = nil
	rendered, err := Render("t", "t", descriptor, Options{HeaderDecorator: decorator, DefaultSort: []SortKey{{0, Ascending}}}, DefaultFilterState())
	require.NoError(t, err)
	require.Len(t, rendered.HeaderRows, 2)
	assert.True(t, rendered.HeaderRows[0].NoSort)
	assert.False(t, rendered.HeaderRows[0].Cells[0].Sortable)
	assert.Equal(t, 2, rendered.HeaderRows[0].Cells[1].ColSpan)
	assert.False(t, rendered.HeaderRows[1].NoSort)
	assert.Equal(t, "#Samples", rendered.HeaderRows[1].Cells[1].Label)
	assert.Nil(t, rendered.Summary)
	assert.Equal(t, []SortKey{{0, Ascending}}, rendered.SortList)
}

func TestSorted(t *testing.T) {
	rendered, err := Render("t", "t", bookingDescriptor(), Options{DefaultSort: []SortKey{{Column: 2, Direction: Descending}}}, DefaultFilterState())
	require.NoError(t, err)
	sorted := rendered.Sorted()
	assert.Equal(t, []string{"DeleteBooking", "GetBooking", "Checkout Flow"}, bodyLabels(sorted))
	// the original is untouched
	assert.Equal(t, []string{"GetBooking", "DeleteBooking", "Checkout Flow"}, bodyLabels(rendered))

	rendered.SortList = []SortKey{{Column: 0, Direction: Ascending}}
	assert.Equal(t, []string{"Checkout Flow", "DeleteBooking", "GetBooking"}, bodyLabels(rendered.Sorted()))
}

func TestSortKeyMarshalJSON(t *testing.T) {
	out, err := SortKey{Column: 1, Direction: Descending}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "[1,1]", string(out))
}

func TestFilterStateValidate(t *testing.T) {
	assert.NoError(t, DefaultFilterState().Validate())
	assert.NoError(t, FilterState{SeriesFilter: "^Get.*"}.Validate())
	assert.Error(t, FilterState{SeriesFilter: "(["}.Validate())
}
