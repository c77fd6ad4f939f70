package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"jmdash/internal/table"
)

const XlsxPrimarySheetName = "Dashboard"

func cellName(col int, row int) (name string) {
	columnName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return
	}
	name, err = excelize.JoinCellName(columnName, row)
	if err != nil {
		return
	}
	return
}

type xlsxStyles struct {
	bold   int
	header int
	left   int
}

func newXlsxStyles(f *excelize.File) xlsxStyles {
	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	})
	header, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	left, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
		},
	})
	return xlsxStyles{bold: bold, header: header, left: left}
}

func renderXlsxPieChart(chart PieChart, f *excelize.File, sheetName string, styles xlsxStyles, row *int) {
	_ = f.SetCellValue(sheetName, cellName(1, *row), chart.Name)
	_ = f.SetCellStyle(sheetName, cellName(1, *row), cellName(1, *row), styles.bold)
	*row++
	for col, heading := range []string{"Result", "Share (%)"} {
		_ = f.SetCellValue(sheetName, cellName(col+2, *row), heading)
		_ = f.SetCellStyle(sheetName, cellName(col+2, *row), cellName(col+2, *row), styles.bold)
	}
	*row++
	for _, slice := range chart.Slices {
		_ = f.SetCellValue(sheetName, cellName(2, *row), slice.Label)
		_ = f.SetCellValue(sheetName, cellName(3, *row), slice.Percent)
		_ = f.SetCellStyle(sheetName, cellName(3, *row), cellName(3, *row), styles.left)
		*row++
	}
	*row++
}

func renderXlsxTable(rendered table.Rendered, f *excelize.File, sheetName string, styles xlsxStyles, row *int) {
	col := 1
	// print the table name
	_ = f.SetCellValue(sheetName, cellName(col, *row), rendered.Name)
	_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), styles.bold)
	*row++
	// print the header rows, grouping cells span their columns
	for _, headerRow := range rendered.HeaderRows {
		col = 2
		for _, cell := range headerRow.Cells {
			span := max(cell.ColSpan, 1)
			_ = f.SetCellValue(sheetName, cellName(col, *row), cell.Label)
			if span > 1 {
				_ = f.MergeCell(sheetName, cellName(col, *row), cellName(col+span-1, *row))
			}
			_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col+span-1, *row), styles.header)
			col += span
		}
		*row++
	}
	if !hasData(rendered) {
		_ = f.SetCellValue(sheetName, cellName(2, *row), NoDataFound)
		*row += 2
		return
	}
	if rendered.Summary != nil {
		renderXlsxRow(*rendered.Summary, f, sheetName, styles.bold, row)
	}
	for _, bodyRow := range rendered.Body {
		renderXlsxRow(bodyRow, f, sheetName, styles.left, row)
	}
	*row++
}

func renderXlsxRow(renderedRow table.RenderedRow, f *excelize.File, sheetName string, style int, row *int) {
	col := 2
	for _, cell := range renderedRow.Cells {
		_ = f.SetCellValue(sheetName, cellName(col, *row), getValueForCell(cell))
		_ = f.SetCellStyle(sheetName, cellName(col, *row), cellName(col, *row), style)
		col++
	}
	*row++
}

func createXlsxReport(doc Document) (out []byte, err error) {
	f := excelize.NewFile()
	sheetName := XlsxPrimarySheetName
	_ = f.SetSheetName("Sheet1", sheetName)
	_ = f.SetColWidth(sheetName, "A", "A", 25)
	_ = f.SetColWidth(sheetName, "B", "O", 25)
	styles := newXlsxStyles(f)
	row := 1
	_ = f.SetCellValue(sheetName, cellName(1, row), doc.Title)
	_ = f.SetCellStyle(sheetName, cellName(1, row), cellName(1, row), styles.bold)
	row += 2
	if doc.Chart != nil {
		renderXlsxPieChart(*doc.Chart, f, sheetName, styles, &row)
	}
	for _, rendered := range doc.Tables {
		renderXlsxTable(rendered.Sorted(), f, sheetName, styles, &row)
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_, err = f.WriteTo(w)
	if err != nil {
		err = fmt.Errorf("failed to write xlsx report to buffer: %v", err)
		return
	}
	if err = w.Flush(); err != nil {
		err = fmt.Errorf("failed to flush xlsx report: %v", err)
		return
	}
	out = buf.Bytes()
	return
}

// getValueForCell stores numeric cells as numbers so that spreadsheet formulas work on them
func getValueForCell(value string) (val any) {
	intValue, err := strconv.Atoi(value)
	if err == nil {
		val = intValue
		return
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err == nil {
		val = floatValue
		return
	}
	val = value
	return
}
