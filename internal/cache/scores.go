// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"
	"sync"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

// ScoreStore maps {mediaType, id} to a unified rating.
type ScoreStore struct {
	store kvstore.Store

	mu     sync.Mutex
	scores map[string]float64
	loaded bool
}

// NewScoreStore creates a ScoreStore backed by store.
func NewScoreStore(store kvstore.Store) *ScoreStore {
	return &ScoreStore{store: store}
}

// ensureLoaded must be called with mu held.
func (s *ScoreStore) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	doc := make(map[string]float64)
	loadDocument(ctx, s.store, NamespaceScores, metrics.LayerScores, &doc)
	if doc == nil {
		doc = make(map[string]float64)
	}
	s.scores = doc
	metrics.CacheEntries.WithLabelValues(metrics.LayerScores).Set(float64(len(s.scores)))
}

// Get returns the stored score for an item.
func (s *ScoreStore) Get(ctx context.Context, mediaType models.MediaType, id int) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	score, ok := s.scores[models.ScoreKey(mediaType, id)]
	if ok {
		metrics.RecordCacheLookup(metrics.LayerScores, metrics.ResultHit)
	} else {
		metrics.RecordCacheLookup(metrics.LayerScores, metrics.ResultMiss)
	}
	return score, ok
}

// Set stores a score and writes it through. A nil score or zero id is ignored.
func (s *ScoreStore) Set(ctx context.Context, mediaType models.MediaType, id int, score *float64) {
	if score == nil || id == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	s.scores[models.ScoreKey(mediaType, id)] = *score
	metrics.CacheEntries.WithLabelValues(metrics.LayerScores).Set(float64(len(s.scores)))
	saveDocument(ctx, s.store, NamespaceScores, metrics.LayerScores, s.scores)
}

// ApplyStored sets UnifiedRating in place on every item with a stored score
// and returns the same slice. Items without a stored score are left alone.
func (s *ScoreStore) ApplyStored(ctx context.Context, items []models.CatalogItem, mediaType models.MediaType) []models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	for i := range items {
		if score, ok := s.scores[models.ScoreKey(mediaType, items[i].ID)]; ok {
			v := score
			items[i].UnifiedRating = &v
		}
	}
	return items
}

// MergeMissing inserts every entry whose key is not stored yet, persisting
// once. Existing scores are never overwritten. Returns the number inserted.
func (s *ScoreStore) MergeMissing(ctx context.Context, entries map[string]float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)

	added := 0
	for key, score := range entries {
		if _, exists := s.scores[key]; exists {
			continue
		}
		s.scores[key] = score
		added++
	}

	if added > 0 {
		metrics.CacheEntries.WithLabelValues(metrics.LayerScores).Set(float64(len(s.scores)))
		saveDocument(ctx, s.store, NamespaceScores, metrics.LayerScores, s.scores)
	}
	return added
}

// Len returns the number of stored scores.
func (s *ScoreStore) Len(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return len(s.scores)
}
