// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kunw4r/syllabus/internal/enrich"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/models"
)

// EnrichRequest is the POST /api/v1/enrich body.
type EnrichRequest struct {
	MediaType string               `json:"media_type" validate:"required,mediatype"`
	ChartKey  string               `json:"chart_key,omitempty" validate:"omitempty,max=64"`
	SessionID string               `json:"session_id,omitempty" validate:"omitempty,max=128"`
	Items     []models.CatalogItem `json:"items" validate:"required,min=1,max=500,dive"`
}

// ApplyScoresRequest is the POST /api/v1/scores/apply body.
type ApplyScoresRequest struct {
	MediaType string               `json:"media_type" validate:"required,mediatype"`
	Items     []models.CatalogItem `json:"items" validate:"required,min=1,max=1000,dive"`
}

// ItemsResponse carries a ranked or annotated item list.
type ItemsResponse struct {
	MediaType models.MediaType     `json:"media_type"`
	Count     int                  `json:"count"`
	Items     []models.CatalogItem `json:"items"`
}

// ScoreResponse carries one stored unified score.
type ScoreResponse struct {
	MediaType models.MediaType `json:"media_type"`
	ID        int              `json:"id"`
	Score     float64          `json:"score"`
}

// Enrich rates and ranks the posted items.
//
// With a session_id, starting a new request for the same session cancels
// the previous one; the canceled request answers 409 SUPERSEDED.
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mediaType := models.MediaType(req.MediaType)
	ctx := r.Context()
	correlationID := logging.CorrelationIDFromContext(ctx)

	var gen uint64
	if req.SessionID != "" {
		ctx, gen = h.sessions.Begin(ctx, req.SessionID)
		defer h.sessions.End(req.SessionID, gen)
	}

	var onProgress enrich.ProgressFunc
	if h.wsHub != nil {
		onProgress = func(p models.EnrichmentProgress) {
			h.wsHub.BroadcastEnrichProgress(req.SessionID, correlationID, mediaType, p)
		}
	}

	start := time.Now()
	items, err := h.enricher.Enrich(ctx, req.Items, mediaType, req.ChartKey, onProgress)
	if err != nil {
		h.enrichFailed(w, r, req.SessionID, gen, err)
		return
	}

	if req.ChartKey != "" && h.wsHub != nil {
		h.wsHub.BroadcastChartUpdated(req.ChartKey, len(items))
	}

	respondSuccess(w, ItemsResponse{MediaType: mediaType, Count: len(items), Items: items},
		models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

func (h *Handler) enrichFailed(w http.ResponseWriter, r *http.Request, sessionID string, gen uint64, err error) {
	log := logging.Ctx(r.Context())

	if errors.Is(err, enrich.ErrCanceled) {
		if sessionID != "" && !h.sessions.Current(sessionID, gen) {
			log.Info().Str("session_id", sanitizeLogValue(sessionID)).Msg("Enrichment superseded by a newer request")
			respondError(w, http.StatusConflict, CodeSuperseded, "A newer request for this session replaced this one", nil)
			return
		}
		if r.Context().Err() != nil {
			log.Debug().Msg("Client went away during enrichment")
			return
		}
	}

	respondError(w, http.StatusInternalServerError, CodeInternal, "Enrichment failed", err)
}

// ApplyScores annotates items with stored scores without calling any source.
func (h *Handler) ApplyScores(w http.ResponseWriter, r *http.Request) {
	var req ApplyScoresRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	mediaType := models.MediaType(req.MediaType)
	items := h.scores.ApplyStored(r.Context(), req.Items, mediaType)

	respondSuccess(w, ItemsResponse{MediaType: mediaType, Count: len(items), Items: items}, models.Metadata{Cached: true})
}

// GetScore returns one stored score, or 404 when none is known.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	mt := chi.URLParam(r, "mediaType")
	if apiErr := validateParam("mediaType", mt, "required,mediatype"); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, CodeValidation, "id must be a positive integer", nil)
		return
	}

	mediaType := models.MediaType(mt)
	score, ok := h.scores.Get(r.Context(), mediaType, id)
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotFound, "No stored score", nil)
		return
	}

	respondSuccess(w, ScoreResponse{MediaType: mediaType, ID: id, Score: score}, models.Metadata{Cached: true})
}
