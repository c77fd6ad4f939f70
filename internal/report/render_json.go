package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/json"
	"fmt"

	"jmdash/internal/table"
)

func createJsonReport(doc Document) (out []byte, err error) {
	type outRecord map[string]string
	type outTable struct {
		ID       string          `json:"id"`
		Name     string          `json:"name"`
		Titles   []string        `json:"titles"`
		SortList []table.SortKey `json:"sortList"`
		Summary  outRecord       `json:"summary,omitempty"`
		Rows     []outRecord     `json:"rows"`
	}
	type outReport struct {
		Title           string     `json:"title"`
		RequestsSummary *PieChart  `json:"requestsSummary,omitempty"`
		Tables          []outTable `json:"tables"`
	}
	toRecord := func(titles []string, row table.RenderedRow) outRecord {
		oRecord := make(outRecord)
		for i, cell := range row.Cells {
			key := fmt.Sprintf("column %d", i+1)
			if i < len(titles) {
				key = titles[i]
			}
			oRecord[key] = cell
		}
		return oRecord
	}
	oReport := outReport{
		Title:           doc.Title,
		RequestsSummary: doc.Chart,
		Tables:          []outTable{},
	}
	for _, rendered := range doc.Tables {
		sorted := rendered.Sorted()
		oTable := outTable{
			ID:       sorted.ID,
			Name:     sorted.Name,
			Titles:   sorted.Titles,
			SortList: sorted.SortList,
			Rows:     []outRecord{},
		}
		if oTable.SortList == nil {
			oTable.SortList = []table.SortKey{}
		}
		if sorted.Summary != nil {
			oTable.Summary = toRecord(sorted.Titles, *sorted.Summary)
		}
		for _, row := range sorted.Body {
			oTable.Rows = append(oTable.Rows, toRecord(sorted.Titles, row))
		}
		oReport.Tables = append(oReport.Tables, oTable)
	}
	return json.MarshalIndent(oReport, "", " ")
}
