// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package serve

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmdash/internal/dashboard"
	"jmdash/internal/table"
)

func newTestServer(t *testing.T) *dashboardServer {
	t.Helper()
	snapshot, err := dashboard.Load("")
	require.NoError(t, err)
	return newDashboardServer(snapshot, dashboard.DefaultConfig())
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestFilterFromQuery(t *testing.T) {
	defaults := table.DefaultFilterState()
	tests := []struct {
		name      string
		query     string
		expected  table.FilterState
		expectErr bool
	}{
		{"empty query keeps defaults", "", defaults, false},
		{"series filter", "seriesFilter=get", table.FilterState{SeriesFilter: "get", FiltersOnlySampleSeries: true}, false},
		{"checkbox checked", "showControllersOnly=false&showControllersOnly=true", table.FilterState{ShowControllersOnly: true, FiltersOnlySampleSeries: true}, false},
		{"checkbox unchecked", "filtersOnlySampleSeries=false", table.FilterState{}, false},
		{"bad boolean", "showControllersOnly=maybe", table.FilterState{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := filterFromQuery(query, defaults)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHandleHtml(t *testing.T) {
	rec := get(t, newTestServer(t).routes(), "/?seriesFilter=Delete&filtersOnlySampleSeries=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `name="seriesFilter" value="Delete"`)
	assert.Contains(t, body, "<td>DeleteBooking</td>")
	assert.NotContains(t, body, "<td>GetBooking</td>")
}

func TestHandleJson(t *testing.T) {
	rec := get(t, newTestServer(t).routes(), "/report.json?seriesFilter=get")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var decoded struct {
		Tables []struct {
			ID   string              `json:"id"`
			Rows []map[string]string `json:"rows"`
		} `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	for _, tbl := range decoded.Tables {
		if tbl.ID == "statisticsTable" {
			require.Len(t, tbl.Rows, 1)
			assert.Equal(t, "GetBooking", tbl.Rows[0]["Label"])
			return
		}
	}
	t.Fatal("statistics table not found")
}

func TestHandleBadRequests(t *testing.T) {
	handler := newTestServer(t).routes()
	assert.Equal(t, http.StatusBadRequest, get(t, handler, "/?seriesFilter=(%5B").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, handler, "/report.txt?showControllersOnly=maybe").Code)
	assert.Equal(t, http.StatusNotFound, get(t, handler, "/report.pdf").Code)
}

func TestHandleXlsx(t *testing.T) {
	rec := get(t, newTestServer(t).routes(), "/report.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dashboard.xlsx")
	// xlsx files are zip archives
	assert.Equal(t, "PK", rec.Body.String()[:2])
}

func TestMetrics(t *testing.T) {
	handler := newTestServer(t).routes()
	require.Equal(t, http.StatusOK, get(t, handler, "/report.txt").Code)
	require.Equal(t, http.StatusOK, get(t, handler, "/report.txt").Code)
	rec := get(t, handler, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `jmdash_samples{label="GetBooking"} 20857`)
	assert.Contains(t, body, `jmdash_samples{label="Total"} 104276`)
	assert.Contains(t, body, `jmdash_apdex{label="Total"} 0.9875426752081016`)
	assert.Contains(t, body, `jmdash_requests_percent{result="FAIL"}`)
	assert.Contains(t, body, `jmdash_renders_total{format="txt"} 2`)
}

func TestServeShutdown(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, listener, s)
	}()
	resp, err := http.Get("http://" + listener.Addr().String() + "/report.txt")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), "Statistics")
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
