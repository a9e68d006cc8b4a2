// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPerformanceMonitor_Stats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100, time.Second)
	for i := 1; i <= 10; i++ {
		pm.Record(RequestSample{Route: "/enrich", Method: http.MethodPost, Duration: time.Duration(i*10) * time.Millisecond, StatusCode: http.StatusOK})
	}
	pm.Record(RequestSample{Route: "/health", Method: http.MethodGet, Duration: time.Millisecond, StatusCode: http.StatusServiceUnavailable})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("got %d routes, want 2", len(stats))
	}

	enrich := stats[0]
	if enrich.Route != "POST /enrich" || enrich.Requests != 10 {
		t.Fatalf("busiest route = %+v", enrich)
	}
	if enrich.AvgMS != 55 || enrich.P50MS != 50 || enrich.MaxMS != 100 {
		t.Errorf("latency stats = %+v", enrich)
	}
	if stats[1].Errors != 1 {
		t.Errorf("health errors = %d, want 1", stats[1].Errors)
	}
}

func TestPerformanceMonitor_Window(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3, 0)
	for i := 0; i < 5; i++ {
		pm.Record(RequestSample{Route: "/x", Method: http.MethodGet})
	}
	if got := pm.Stats()[0].Requests; got != 3 {
		t.Errorf("retained %d samples, want 3", got)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10, time.Hour)
	handler := pm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	stats := pm.Stats()
	if len(stats) != 1 || stats[0].Route != "GET /boom" || stats[0].Errors != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
