// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

// RatingCache maps a title key to an OMDb rating bundle.
//
// A nil bundle is an explicit "looked up, nothing found" marker. Markers are
// honored for the rest of the process but pruned the first time the document
// is loaded, so every new process retries titles that previously had no data.
type RatingCache struct {
	store kvstore.Store

	mu      sync.Mutex
	entries map[string]*models.ExternalRatings
	loaded  bool
}

// NewRatingCache creates a RatingCache backed by store.
func NewRatingCache(store kvstore.Store) *RatingCache {
	return &RatingCache{store: store}
}

// RatingKey derives the cache key for a title: lower(title)|year|mediaType.
func RatingKey(title, year string, mediaType models.MediaType) string {
	return strings.ToLower(title) + "|" + year + "|" + string(mediaType)
}

// ensureLoaded must be called with mu held.
func (c *RatingCache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	doc := make(map[string]*models.ExternalRatings)
	loadDocument(ctx, c.store, NamespaceRating, metrics.LayerRating, &doc)
	if doc == nil {
		doc = make(map[string]*models.ExternalRatings)
	}

	pruned := 0
	for key, entry := range doc {
		if entry == nil {
			delete(doc, key)
			pruned++
		}
	}
	c.entries = doc
	metrics.CacheEntries.WithLabelValues(metrics.LayerRating).Set(float64(len(c.entries)))

	if pruned > 0 {
		logging.Debug().Int("pruned", pruned).Msg("Pruned negative rating cache entries")
		saveDocument(ctx, c.store, NamespaceRating, metrics.LayerRating, c.entries)
	}
}

// Lookup returns the cached bundle for key.
//
//	(bundle, true) cached data
//	(nil, true)    looked up before, nothing found
//	(nil, false)   never looked up
func (c *RatingCache) Lookup(ctx context.Context, key string) (*models.ExternalRatings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	entry, ok := c.entries[key]
	switch {
	case !ok:
		metrics.RecordCacheLookup(metrics.LayerRating, metrics.ResultMiss)
	case entry == nil:
		metrics.RecordCacheLookup(metrics.LayerRating, metrics.ResultNegative)
	default:
		metrics.RecordCacheLookup(metrics.LayerRating, metrics.ResultHit)
	}
	return entry, ok
}

// Store records the result of a lookup. A nil bundle stores a negative marker.
func (c *RatingCache) Store(ctx context.Context, key string, ratings *models.ExternalRatings) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	c.entries[key] = ratings
	metrics.CacheEntries.WithLabelValues(metrics.LayerRating).Set(float64(len(c.entries)))
	saveDocument(ctx, c.store, NamespaceRating, metrics.LayerRating, c.entries)
}

// Len returns the number of cached entries, negatives included.
func (c *RatingCache) Len(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)
	return len(c.entries)
}
