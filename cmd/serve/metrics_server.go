// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"github.com/prometheus/client_golang/prometheus"

	"jmdash/internal/dashboard"
	"jmdash/internal/table"
)

const promMetricPrefix = "jmdash_"

// statistics columns exported as gauges
const (
	statisticsSamplesColumn  = 1
	statisticsErrorPctColumn = 3
	statisticsMeanColumn     = 4
	apdexLabelColumn         = 3
)

type dashboardMetrics struct {
	apdex           *prometheus.GaugeVec
	errorPercent    *prometheus.GaugeVec
	samples         *prometheus.GaugeVec
	meanResponse    *prometheus.GaugeVec
	requestsPercent *prometheus.GaugeVec
	renders         *prometheus.CounterVec
}

func newDashboardMetrics(registerer prometheus.Registerer) *dashboardMetrics {
	m := &dashboardMetrics{
		apdex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promMetricPrefix + "apdex",
			Help: "APDEX score by label",
		}, []string{"label"}),
		errorPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promMetricPrefix + "error_percent",
			Help: "Percentage of failed samples by label",
		}, []string{"label"}),
		samples: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promMetricPrefix + "samples",
			Help: "Number of samples by label",
		}, []string{"label"}),
		meanResponse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promMetricPrefix + "mean_response_time_ms",
			Help: "Mean response time in milliseconds by label",
		}, []string{"label"}),
		requestsPercent: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: promMetricPrefix + "requests_percent",
			Help: "Percentage of passed and failed samples",
		}, []string{"result"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: promMetricPrefix + "renders_total",
			Help: "Number of dashboard renders by format",
		}, []string{"format"}),
	}
	registerer.MustRegister(m.apdex, m.errorPercent, m.samples, m.meanResponse, m.requestsPercent, m.renders)
	return m
}

// update sets the gauges from the unfiltered snapshot
func (m *dashboardMetrics) update(s dashboard.Snapshot) {
	for _, slice := range dashboard.RequestsSummaryChart(s.RequestsSummary).Slices {
		m.requestsPercent.WithLabelValues(slice.Label).Set(slice.Value)
	}
	for _, row := range allRows(s.Statistics) {
		label := table.FormatValue(row.Data[0])
		setFromColumn(m.samples, label, row, statisticsSamplesColumn)
		setFromColumn(m.errorPercent, label, row, statisticsErrorPctColumn)
		setFromColumn(m.meanResponse, label, row, statisticsMeanColumn)
	}
	for _, row := range allRows(s.Apdex) {
		if len(row.Data) <= apdexLabelColumn {
			continue
		}
		setFromColumn(m.apdex, table.FormatValue(row.Data[apdexLabelColumn]), row, 0)
	}
}

func allRows(descriptor *table.Descriptor) []table.Row {
	if descriptor == nil {
		return nil
	}
	rows := []table.Row{}
	candidates := descriptor.Items
	if descriptor.Overall != nil {
		candidates = append([]table.Row{*descriptor.Overall}, candidates...)
	}
	for _, row := range candidates {
		if len(row.Data) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func setFromColumn(gauge *prometheus.GaugeVec, label string, row table.Row, column int) {
	if column >= len(row.Data) {
		return
	}
	if value, ok := row.Data[column].(float64); ok {
		gauge.WithLabelValues(label).Set(value)
	}
}
