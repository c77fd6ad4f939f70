// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jmdash/internal/dashboard"
	"jmdash/internal/report"
	"jmdash/internal/table"
)

// query parameters carrying the filter state
const (
	querySeriesFilter            = "seriesFilter"
	queryShowControllersOnly     = "showControllersOnly"
	queryFiltersOnlySampleSeries = "filtersOnlySampleSeries"
)

// dashboardServer renders the dashboard for each request. The snapshot is never
// modified after load, so handlers share it without locking.
type dashboardServer struct {
	snapshot dashboard.Snapshot
	config   dashboard.Config
	metrics  *dashboardMetrics
	registry *prometheus.Registry
}

func newDashboardServer(snapshot dashboard.Snapshot, cfg dashboard.Config) *dashboardServer {
	registry := prometheus.NewRegistry()
	s := &dashboardServer{
		snapshot: snapshot,
		config:   cfg,
		metrics:  newDashboardMetrics(registry),
		registry: registry,
	}
	s.metrics.update(snapshot)
	return s
}

func (s *dashboardServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleReport(report.FormatHtml))
	for _, format := range []string{report.FormatJson, report.FormatTxt, report.FormatXlsx} {
		mux.HandleFunc("GET /report."+format, s.handleReport(format))
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *dashboardServer) handleReport(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r.URL.Query(), s.config.Filter)
		if err == nil {
			err = filter.Validate()
		}
		if err != nil {
			slog.Warn("bad filter request", slog.String("query", r.URL.RawQuery), slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		cfg := s.config
		cfg.Filter = filter
		doc, err := dashboard.Build(s.snapshot, cfg)
		if err != nil {
			slog.Error("failed to build dashboard", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var out []byte
		if format == report.FormatHtml {
			out, err = report.CreateHtmlReportWithFilterForm(doc, report.FilterForm{Action: "/", State: filter})
		} else {
			out, err = report.Create(format, doc)
		}
		if err != nil {
			slog.Error("failed to create report", slog.String("format", format), slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.metrics.renders.WithLabelValues(format).Inc()
		w.Header().Set("Content-Type", report.ContentType(format))
		if format == report.FormatXlsx {
			w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
		}
		if _, err := w.Write(out); err != nil {
			slog.Error("failed to write response", slog.String("error", err.Error()))
		}
	}
}

// filterFromQuery overrides the defaults with the filter values in the query. When a
// parameter is repeated the last value wins.
func filterFromQuery(query url.Values, defaults table.FilterState) (table.FilterState, error) {
	filter := defaults
	last := func(name string) (string, bool) {
		values := query[name]
		if len(values) == 0 {
			return "", false
		}
		return values[len(values)-1], true
	}
	if value, ok := last(querySeriesFilter); ok {
		filter.SeriesFilter = value
	}
	for name, target := range map[string]*bool{
		queryShowControllersOnly:     &filter.ShowControllersOnly,
		queryFiltersOnlySampleSeries: &filter.FiltersOnlySampleSeries,
	} {
		value, ok := last(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return filter, fmt.Errorf("invalid value %q for %s, expected true or false", value, name)
		}
		*target = b
	}
	return filter, nil
}
