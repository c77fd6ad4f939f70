// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{300.0, "300"},
		{0.2013886225018221, "0.2013886225018221"},
		{20857.0, "20857"},
		{"GetBooking", "GetBooking"},
		{nil, ""},
		{7, "7"},
		{true, "true"},
		{0.000001, "0.000001"},
		{1.5e-7, "1.5e-7"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
		{0.0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatValue(tt.input), "input %v", tt.input)
	}
}

func TestToFixed(t *testing.T) {
	assert.Equal(t, "0.988", ToFixed(0.9875426752081016, 3))
	assert.Equal(t, "335.85", ToFixed(335.8498120372856, 2))
	assert.Equal(t, "300.00", ToFixed(300.0, 2))
	assert.Equal(t, "Total", ToFixed("Total", 2))
	assert.Equal(t, "0.20%", ToFixedPercent(0.2013886225018221, 2))
	assert.Equal(t, "n/a", ToFixedPercent("n/a", 2))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    any
		expected string
	}{
		{500.0, "500 ms"},
		{1500.0, "1 sec 500 ms"},
		{0.0, "0 ms"},
		{60000.0, "1 min"},
		{3723004.0, "1 hour 2 min 3 sec 4 ms"},
		{90000000.0, "1 day 1 hour"},
		{"fast", "fast"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.input), "input %v", tt.input)
	}
}
