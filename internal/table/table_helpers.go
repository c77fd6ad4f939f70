// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_helpers.go contains the cell formatting helpers shared by the table formatters.

package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a raw value the way a browser displays it, e.g., 300.0 is shown as 300
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v, 64)
	case float32:
		return formatNumber(float64(v), 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber prints v the way a browser converts numbers to strings, plain decimal notation
// for magnitudes in [1e-6, 1e21) and exponent notation like 1e+21 or 1.5e-7 outside of it
func formatNumber(v float64, bitSize int) string {
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) || math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, bitSize)
	}
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, bitSize), "e")
	sign, digits := exponent[:1], strings.TrimLeft(exponent[1:], "0")
	return mantissa + "e" + sign + digits
}

// toNumber returns the numeric value of v and true, or false if v is not a number
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// ToFixed formats a number with the given number of decimals, non-numbers are passed through
func ToFixed(value any, decimals int) string {
	if n, ok := toNumber(value); ok {
		return strconv.FormatFloat(n, 'f', decimals, 64)
	}
	return FormatValue(value)
}

// ToFixedPercent is ToFixed followed by a percent sign
func ToFixedPercent(value any, decimals int) string {
	if _, ok := toNumber(value); ok {
		return ToFixed(value, decimals) + "%"
	}
	return FormatValue(value)
}

var durationUnits = []struct {
	name string
	ms   int64
}{
	{"day", 24 * 60 * 60 * 1000},
	{"hour", 60 * 60 * 1000},
	{"min", 60 * 1000},
	{"sec", 1000},
	{"ms", 1},
}

// FormatDuration formats a duration given in milliseconds, e.g., 1500 is "1 sec 500 ms"
func FormatDuration(value any) string {
	n, ok := toNumber(value)
	if !ok {
		return FormatValue(value)
	}
	remaining := int64(n)
	negative := remaining < 0
	if negative {
		remaining = -remaining
	}
	var parts []string
	for _, unit := range durationUnits {
		count := remaining / unit.ms
		remaining -= count * unit.ms
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", count, unit.name))
		}
	}
	if len(parts) == 0 {
		return "0 ms"
	}
	out := strings.Join(parts, " ")
	if negative {
		out = "-" + out
	}
	return out
}
