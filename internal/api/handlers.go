// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/singleflight"

	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/enrich"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/middleware"
	"github.com/kunw4r/syllabus/internal/models"
	"github.com/kunw4r/syllabus/internal/sources"
	ws "github.com/kunw4r/syllabus/internal/websocket"
)

// Enricher runs an enrichment pass. *enrich.Orchestrator satisfies it.
type Enricher interface {
	Enrich(ctx context.Context, items []models.CatalogItem, mediaType models.MediaType,
		chartKey string, onProgress enrich.ProgressFunc) ([]models.CatalogItem, error)
}

// Catalog supplies raw chart pages. *sources.TMDBClient satisfies it.
type Catalog interface {
	Discover(ctx context.Context, mediaType models.MediaType, q sources.DiscoverQuery) (*sources.Page, error)
	Trending(ctx context.Context, mediaType models.MediaType) (*sources.Page, error)
}

// Dependencies groups what the handlers need. Catalog, Hub, Keys and PerfMon
// are optional.
type Dependencies struct {
	Scores      *cache.ScoreStore
	Ratings     *cache.RatingCache
	Charts      *cache.ChartCache
	Enricher    Enricher
	Catalog     Catalog
	Hub         *ws.Hub
	Keys        *sources.KeyPool
	PerfMon     *middleware.PerformanceMonitor
	CORSOrigins []string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade (this file)
//   - handlers_helpers.go: response and validation helpers
//   - handlers_health.go: /health
//   - handlers_enrich.go: enrichment and score endpoints
//   - handlers_charts.go: chart endpoint
type Handler struct {
	scores      *cache.ScoreStore
	ratings     *cache.RatingCache
	charts      *cache.ChartCache
	enricher    Enricher
	catalog     Catalog
	wsHub       *ws.Hub
	keys        *sources.KeyPool
	perfMon     *middleware.PerformanceMonitor
	corsOrigins []string

	sessions    *enrich.Supersede
	chartBuilds singleflight.Group
	startTime   time.Time
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		scores:      deps.Scores,
		ratings:     deps.Ratings,
		charts:      deps.Charts,
		enricher:    deps.Enricher,
		catalog:     deps.Catalog,
		wsHub:       deps.Hub,
		keys:        deps.Keys,
		perfMon:     deps.PerfMon,
		corsOrigins: deps.CORSOrigins,
		sessions:    enrich.NewSupersede(),
		startTime:   time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; an empty one would bypass CORS.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	for _, allowed := range h.corsOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers a hub client. The optional
// session_id query parameter limits delivery to that session's progress.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, r.URL.Query().Get("session_id"))
	h.wsHub.Register <- client
	client.Start()
}
