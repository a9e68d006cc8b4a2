// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package api provides the HTTP layer of the enrichment service.

Routes:

	GET  /health                              liveness, cache sizes, latency stats
	GET  /metrics                             Prometheus exposition
	POST /api/v1/enrich                       enrich and rank a list of items
	POST /api/v1/scores/apply                 apply stored scores without fetching
	GET  /api/v1/scores/{mediaType}/{id}      one stored score
	GET  /api/v1/charts/{mediaType}/{scope}   cached or freshly built chart
	GET  /api/v1/ws                           websocket progress stream

Every JSON response uses the models.APIResponse envelope:

	{"status": "success", "data": ..., "metadata": {"timestamp": ...}}
	{"status": "error", "error": {"code": "SUPERSEDED", "message": ...}, ...}

Enrichment requests may carry a session_id. A newer request with the same
session cancels the older one, which then answers 409 SUPERSEDED. Progress
for a session is published on the websocket hub as enrich_progress messages
tagged with the session id; clients connect with ?session_id= to receive
only their own events.

Usage:

	handler := api.NewHandler(api.Dependencies{...})
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security), perfMon)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
