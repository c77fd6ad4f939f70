// Package report provides functions to generate dashboard reports in various formats such as txt, json, html, xlsx.
package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"jmdash/internal/table"
	"strings"
)

const (
	FormatHtml = "html"
	FormatXlsx = "xlsx"
	FormatJson = "json"
	FormatTxt  = "txt"
	FormatAll  = "all"
)

const NoDataFound = "No data found."

var FormatOptions = []string{FormatHtml, FormatXlsx, FormatJson, FormatTxt}

// PieSlice is one slice of a pie chart. Percent is the share of the slice in the chart, rounded for display.
type PieSlice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"data"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// PieChart is a pie chart placed at the top of the report
type PieChart struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Slices []PieSlice `json:"slices"`
}

// Document is everything that goes into a report
type Document struct {
	Title  string
	Chart  *PieChart
	Tables []table.Rendered
}

// Create generates a report in the specified format from the document.
// It supports formats such as txt, json, html, xlsx.
//
// Parameters:
// - format: The desired format of the report (txt, json, html, xlsx).
// - doc: The charts and rendered tables to include.
//
// Returns:
// - out: The generated report as a byte slice.
// - err: An error, if any occurred during report generation.
func Create(format string, doc Document) (out []byte, err error) {
	switch format {
	case FormatTxt:
		return createTextReport(doc)
	case FormatJson:
		return createJsonReport(doc)
	case FormatHtml:
		return createHtmlReport(doc)
	case FormatXlsx:
		return createXlsxReport(doc)
	}
	return nil, fmt.Errorf("expected one of %s, got %s", strings.Join(FormatOptions, ", "), format)
}

// ContentType returns the MIME type of a report format
func ContentType(format string) string {
	switch format {
	case FormatHtml:
		return "text/html; charset=utf-8"
	case FormatJson:
		return "application/json"
	case FormatXlsx:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

func hasData(rendered table.Rendered) bool {
	return rendered.Summary != nil || len(rendered.Body) > 0
}
