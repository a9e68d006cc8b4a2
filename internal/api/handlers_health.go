// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package api

import (
	"net/http"
	"time"

	"github.com/kunw4r/syllabus/internal/middleware"
	"github.com/kunw4r/syllabus/internal/models"
)

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status         string                  `json:"status"`
	Uptime         float64                 `json:"uptime_seconds"`
	Scores         int                     `json:"scores"`
	Ratings        int                     `json:"ratings"`
	Charts         int                     `json:"charts"`
	OMDbKeys       int                     `json:"omdb_keys_available"`
	OMDbKeysTotal  int                     `json:"omdb_keys_total"`
	WSClients      int                     `json:"ws_clients"`
	ActiveSessions int                     `json:"active_sessions"`
	Endpoints      []middleware.RouteStats `json:"endpoints,omitempty"`
}

// Health reports liveness and cache sizes. It always answers 200; status is
// "degraded" once every OMDb key is spent, since new titles can no longer
// be rated until the daily reset.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := HealthStatus{
		Status:         "healthy",
		Uptime:         time.Since(h.startTime).Seconds(),
		ActiveSessions: h.sessions.Active(),
	}
	if h.scores != nil {
		health.Scores = h.scores.Len(ctx)
	}
	if h.ratings != nil {
		health.Ratings = h.ratings.Len(ctx)
	}
	if h.charts != nil {
		health.Charts = h.charts.Len(ctx)
	}
	if h.keys != nil {
		health.OMDbKeys = h.keys.Available()
		health.OMDbKeysTotal = h.keys.Size()
		if health.OMDbKeys == 0 {
			health.Status = "degraded"
		}
	}
	if h.wsHub != nil {
		health.WSClients = h.wsHub.GetClientCount()
	}
	if h.perfMon != nil {
		health.Endpoints = h.perfMon.Stats()
	}

	respondSuccess(w, health, models.Metadata{})
}
