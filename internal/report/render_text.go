package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"jmdash/internal/table"
)

const (
	columnSpacing   = 3
	maxTextCellSize = 60
)

func createTextReport(doc Document) (out []byte, err error) {
	var sb strings.Builder
	writeTextHeading(&sb, doc.Title)
	sb.WriteString("\n")
	if doc.Chart != nil {
		writeTextHeading(&sb, doc.Chart.Name)
		for _, slice := range doc.Chart.Slices {
			sb.WriteString(fmt.Sprintf("%s: %s%%\n", slice.Label, FormatPercent(slice.Percent)))
		}
		sb.WriteString("\n")
	}
	for _, rendered := range doc.Tables {
		writeTextHeading(&sb, rendered.Name)
		if !hasData(rendered) {
			sb.WriteString(NoDataFound + "\n\n")
			continue
		}
		sb.WriteString(DefaultTextTableRendererFunc(rendered.Sorted()))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

func writeTextHeading(sb *strings.Builder, heading string) {
	sb.WriteString(fmt.Sprintf("%s\n", heading))
	sb.WriteString(strings.Repeat("=", len(heading)))
	sb.WriteString("\n")
}

// truncateTextCell shortens long cells, e.g., error messages, so that columns stay readable
func truncateTextCell(cell string) string {
	if utf8.RuneCountInString(cell) <= maxTextCellSize {
		return cell
	}
	return string([]rune(cell)[:maxTextCellSize-3]) + "..."
}

// DefaultTextTableRendererFunc renders the titles, the summary row and the body rows as aligned columns
func DefaultTextTableRendererFunc(rendered table.Rendered) string {
	var sb strings.Builder
	rows := [][]string{}
	if rendered.Summary != nil {
		rows = append(rows, rendered.Summary.Cells)
	}
	for _, row := range rendered.Body {
		rows = append(rows, row.Cells)
	}
	numColumns := len(rendered.Titles)
	for _, row := range rows {
		numColumns = max(numColumns, len(row))
	}
	// find the longest item per column, can be the title or a value
	widths := make([]int, numColumns)
	for i, title := range rendered.Titles {
		widths[i] = utf8.RuneCountInString(title)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(truncateTextCell(cell)))
		}
	}
	writeLine := func(cells []string) {
		line := ""
		for i, cell := range cells {
			// the last column shouldn't occupy more space than the value
			if i == len(cells)-1 {
				line += cell
				continue
			}
			line += fmt.Sprintf("%-*s", widths[i]+columnSpacing, cell)
		}
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	// grouping header rows are centered over the columns they span
	for _, headerRow := range rendered.HeaderRows {
		if !headerRow.NoSort {
			continue
		}
		line := ""
		col := 0
		for _, cell := range headerRow.Cells {
			span := max(cell.ColSpan, 1)
			width := 0
			for i := col; i < col+span && i < numColumns; i++ {
				width += widths[i] + columnSpacing
			}
			col += span
			label := cell.Label
			if len(label) < width-columnSpacing {
				label = strings.Repeat(" ", (width-columnSpacing-len(label))/2) + label
			}
			line += fmt.Sprintf("%-*s", width, label)
		}
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}
	writeLine(rendered.Titles)
	// underline the titles
	underlines := make([]string, len(rendered.Titles))
	for i, title := range rendered.Titles {
		underlines[i] = strings.Repeat("-", len(title))
	}
	writeLine(underlines)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = truncateTextCell(cell)
		}
		writeLine(cells)
	}
	return sb.String()
}
