// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"cmp"
	"slices"
	"strings"
)

// Sorted returns a copy of the rendered table with its body in the order given by the sort list.
// The summary row is not part of the sort. Static outputs use this to show the same initial
// order as the interactive HTML table.
func (r Rendered) Sorted() Rendered {
	sorted := r
	sorted.Body = slices.Clone(r.Body)
	if len(r.SortList) == 0 {
		return sorted
	}
	slices.SortStableFunc(sorted.Body, func(a, b RenderedRow) int {
		for _, key := range r.SortList {
			c := compareValues(valueAt(a, key.Column), valueAt(b, key.Column))
			if key.Direction == Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return sorted
}

func valueAt(row RenderedRow, column int) any {
	if column < 0 || column >= len(row.Values) {
		return nil
	}
	return row.Values[column]
}

// numbers sort before strings, strings compare case-insensitively
func compareValues(a, b any) int {
	na, aIsNum := toNumber(a)
	nb, bIsNum := toNumber(b)
	switch {
	case aIsNum && bIsNum:
		return cmp.Compare(na, nb)
	case aIsNum:
		return -1
	case bIsNum:
		return 1
	}
	return strings.Compare(strings.ToLower(FormatValue(a)), strings.ToLower(FormatValue(b)))
}
