// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package middleware provides chi-compatible HTTP middleware shared by the API
router.

Key Components:

  - RequestID: request id propagation into the logging context
  - PrometheusMetrics: request count and latency per chi route pattern
  - PerformanceMonitor: sliding-window latency percentiles for /health

Every middleware has the func(http.Handler) http.Handler shape so it plugs
directly into chi's r.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(perfMon.Middleware)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Post("/enrich", handler.Enrich)
	})

Responses are wrapped with chi's WrapResponseWriter, which keeps
http.Hijacker available for the websocket upgrade route.
*/
package middleware
