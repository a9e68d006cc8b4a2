// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

const (
	// ChartSchemaVersion is bumped whenever SlimCatalogItem changes shape.
	ChartSchemaVersion = 2

	// DefaultChartTTL is how long a chart snapshot stays fresh.
	DefaultChartTTL = 24 * time.Hour

	// InfiniteAge is returned by Age for keys with no snapshot.
	InfiniteAge = time.Duration(math.MaxInt64)
)

// ChartScopeAll is the scope used for unfiltered charts.
const ChartScopeAll = "all"

// ChartKey returns the chart cache key for a media type and scope
// (a TMDB genre id or ChartScopeAll).
func ChartKey(mediaType models.MediaType, scope string) string {
	return string(mediaType) + ":" + scope
}

// ChartConfig configures a ChartCache. Zero values select the defaults.
type ChartConfig struct {
	Version int
	TTL     time.Duration
	Now     func() time.Time
}

type chartEntry struct {
	Items     []models.SlimCatalogItem `json:"items"`
	Timestamp int64                    `json:"timestamp"` // unix milliseconds
}

type chartDocument struct {
	Version int                   `json:"version"`
	Entries map[string]chartEntry `json:"entries"`
}

// ChartCache stores ranked list snapshots with lazy TTL expiry.
type ChartCache struct {
	store   kvstore.Store
	version int
	ttl     time.Duration
	now     func() time.Time

	mu     sync.Mutex
	doc    chartDocument
	loaded bool
}

// NewChartCache creates a ChartCache backed by store.
func NewChartCache(store kvstore.Store, cfg ChartConfig) *ChartCache {
	if cfg.Version == 0 {
		cfg.Version = ChartSchemaVersion
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultChartTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ChartCache{
		store:   store,
		version: cfg.Version,
		ttl:     cfg.TTL,
		now:     cfg.Now,
	}
}

// ensureLoaded must be called with mu held.
func (c *ChartCache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	var doc chartDocument
	loadDocument(ctx, c.store, NamespaceChart, metrics.LayerChart, &doc)

	if doc.Version != c.version || doc.Entries == nil {
		if len(doc.Entries) > 0 {
			logging.Info().
				Int("stored_version", doc.Version).
				Int("current_version", c.version).
				Int("discarded", len(doc.Entries)).
				Msg("Chart cache version changed, discarding snapshots")
		}
		doc = chartDocument{Version: c.version, Entries: make(map[string]chartEntry)}
	}
	c.doc = doc
	metrics.CacheEntries.WithLabelValues(metrics.LayerChart).Set(float64(len(c.doc.Entries)))
}

// age must be called with mu held.
func (c *ChartCache) age(key string) (chartEntry, time.Duration, bool) {
	entry, ok := c.doc.Entries[key]
	if !ok {
		return chartEntry{}, InfiniteAge, false
	}
	return entry, c.now().Sub(time.UnixMilli(entry.Timestamp)), true
}

// Get returns the snapshot for key, or false when absent or at least TTL old.
func (c *ChartCache) Get(ctx context.Context, key string) ([]models.SlimCatalogItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	entry, age, ok := c.age(key)
	if !ok || age >= c.ttl {
		metrics.RecordCacheLookup(metrics.LayerChart, metrics.ResultMiss)
		return nil, false
	}

	metrics.RecordCacheLookup(metrics.LayerChart, metrics.ResultHit)
	items := make([]models.SlimCatalogItem, len(entry.Items))
	copy(items, entry.Items)
	return items, true
}

// Age returns how old the snapshot for key is, or InfiniteAge.
// Expired snapshots still report their real age.
func (c *ChartCache) Age(ctx context.Context, key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	_, age, _ := c.age(key)
	return age
}

// Save stores a slim projection of items stamped with the current time.
func (c *ChartCache) Save(ctx context.Context, key string, items []models.CatalogItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	c.doc.Version = c.version
	c.doc.Entries[key] = chartEntry{
		Items:     models.SlimAll(items),
		Timestamp: c.now().UnixMilli(),
	}
	metrics.CacheEntries.WithLabelValues(metrics.LayerChart).Set(float64(len(c.doc.Entries)))
	saveDocument(ctx, c.store, NamespaceChart, metrics.LayerChart, c.doc)
}

// Len returns the number of snapshots held, expired ones included.
func (c *ChartCache) Len(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)
	return len(c.doc.Entries)
}
