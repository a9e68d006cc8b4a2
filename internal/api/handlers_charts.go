// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/enrich"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/models"
	"github.com/kunw4r/syllabus/internal/sources"
)

// chartBuildTimeout bounds a detached chart rebuild. The build outlives the
// request that started it so concurrent callers can share the result.
const chartBuildTimeout = 2 * time.Minute

// ChartResponse is the GET /api/v1/charts payload.
type ChartResponse struct {
	Key        string                   `json:"key"`
	MediaType  models.MediaType         `json:"media_type"`
	Scope      string                   `json:"scope"`
	AgeSeconds float64                  `json:"age_seconds"`
	Items      []models.SlimCatalogItem `json:"items"`
}

// Chart serves a ranked chart. A fresh snapshot comes from the chart cache;
// otherwise, or with ?refresh=true, the chart is fetched from TMDB, enriched
// and saved. Concurrent rebuilds of the same chart share one build.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	mt := chi.URLParam(r, "mediaType")
	scope := chi.URLParam(r, "scope")
	if apiErr := validateParam("mediaType", mt, "required,mediatype"); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateParam("scope", scope, "required,chartscope"); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	mediaType := models.MediaType(mt)
	key := cache.ChartKey(mediaType, scope)
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	if !refresh {
		if items, ok := h.charts.Get(r.Context(), key); ok {
			age := h.charts.Age(r.Context(), key)
			respondSuccess(w, ChartResponse{
				Key:        key,
				MediaType:  mediaType,
				Scope:      scope,
				AgeSeconds: age.Seconds(),
				Items:      items,
			}, models.Metadata{Cached: true, CacheAgeMS: age.Milliseconds()})
			return
		}
	}

	if h.catalog == nil {
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "Content source not configured", nil)
		return
	}

	start := time.Now()
	correlationID := logging.CorrelationIDFromContext(r.Context())
	result := h.chartBuilds.DoChan(key, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), chartBuildTimeout)
		defer cancel()
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)
		return h.buildChart(ctx, mediaType, scope, key)
	})

	select {
	case <-r.Context().Done():
		logging.Ctx(r.Context()).Debug().Str("chart", key).Msg("Client went away during chart build")
		return
	case res := <-result:
		if res.Err != nil {
			h.chartFailed(w, key, res.Err)
			return
		}
		items, _ := res.Val.([]models.CatalogItem)
		respondSuccess(w, ChartResponse{
			Key:       key,
			MediaType: mediaType,
			Scope:     scope,
			Items:     models.SlimAll(items),
		}, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
	}
}

// buildChart fetches the raw chart and runs it through enrichment, which
// also saves the snapshot under key.
func (h *Handler) buildChart(ctx context.Context, mediaType models.MediaType, scope, key string) ([]models.CatalogItem, error) {
	var (
		page *sources.Page
		err  error
	)
	if scope == cache.ChartScopeAll {
		page, err = h.catalog.Trending(ctx, mediaType)
	} else {
		genreID, _ := strconv.Atoi(scope)
		page, err = h.catalog.Discover(ctx, mediaType, sources.DiscoverQuery{
			Page:    1,
			GenreID: genreID,
			SortBy:  sources.DefaultSortBy,
		})
	}
	if err != nil {
		return nil, err
	}

	items, err := h.enricher.Enrich(ctx, page.Results, mediaType, key, nil)
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("chart", key).Int("items", len(items)).Msg("Chart rebuilt")
	if h.wsHub != nil {
		h.wsHub.BroadcastChartUpdated(key, len(items))
	}
	return items, nil
}

func (h *Handler) chartFailed(w http.ResponseWriter, key string, err error) {
	switch {
	case errors.Is(err, sources.ErrNoTMDBKey):
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "Content source not configured", nil)
	case errors.Is(err, sources.ErrRateLimited):
		respondError(w, http.StatusServiceUnavailable, CodeRateLimited, "Content source is rate limiting requests", err)
	case errors.Is(err, enrich.ErrCanceled):
		respondError(w, http.StatusGatewayTimeout, CodeUpstream, "Chart build timed out", err)
	default:
		respondError(w, http.StatusBadGateway, CodeUpstream, "Failed to build chart "+key, err)
	}
}
