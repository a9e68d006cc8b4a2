// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package seed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/sources"
)

// NamespaceLoadedAt holds the unix millisecond time of the last successful load.
const NamespaceLoadedAt = "seed_loaded_at"

// DefaultTTL is the minimum spacing between two seed downloads.
const DefaultTTL = 12 * time.Hour

// ErrNoURL is returned when no seed URL is configured.
var ErrNoURL = errors.New("seed: no url configured")

// Loader merges the static seed into the score store.
type Loader struct {
	url    string
	ttl    time.Duration
	client *http.Client
	scores *cache.ScoreStore
	store  kvstore.Store
	now    func() time.Time

	// refreshMu serializes downloads.
	refreshMu sync.Mutex

	onceMu    sync.Mutex
	attempted bool
}

// NewLoader creates a Loader. store holds the last-load timestamp and may be
// the same store backing scores.
func NewLoader(cfg *config.SeedConfig, scores *cache.ScoreStore, store kvstore.Store) *Loader {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Loader{
		url:    cfg.URL,
		ttl:    ttl,
		client: &http.Client{Timeout: cfg.Timeout},
		scores: scores,
		store:  store,
		now:    time.Now,
	}
}

// LoadOnce runs Refresh the first time it is called in this process and is a
// no-op afterwards, even when the first attempt failed.
func (l *Loader) LoadOnce(ctx context.Context) (int, error) {
	l.onceMu.Lock()
	if l.attempted {
		l.onceMu.Unlock()
		return 0, nil
	}
	l.attempted = true
	l.onceMu.Unlock()

	return l.Refresh(ctx)
}

// Refresh downloads and merges the seed unless the last successful load is
// younger than the TTL. It returns the number of scores added. The load
// timestamp is written only after a successful merge.
func (l *Loader) Refresh(ctx context.Context) (int, error) {
	l.refreshMu.Lock()
	defer l.refreshMu.Unlock()

	if l.url == "" {
		return 0, ErrNoURL
	}

	if last, ok := l.lastLoaded(ctx); ok && l.now().Sub(last) < l.ttl {
		metrics.SeedLoads.WithLabelValues("skipped").Inc()
		logging.Debug().Time("last_loaded", last).Msg("Seed still fresh, skipping download")
		return 0, nil
	}

	start := time.Now()
	doc := NewDocument()
	if err := sources.FetchJSON(ctx, l.client, l.url, doc); err != nil {
		metrics.SeedLoads.WithLabelValues("failed").Inc()
		return 0, fmt.Errorf("seed: fetch: %w", err)
	}

	added := l.scores.MergeMissing(ctx, doc.Scores())
	metrics.SeedScoresMerged.Add(float64(added))
	metrics.SeedLoads.WithLabelValues("loaded").Inc()

	if err := kvstore.Save(ctx, l.store, NamespaceLoadedAt, l.now().UnixMilli()); err != nil {
		logging.Warn().Err(err).Msg("Failed to persist seed load time")
	}

	logging.Info().
		Int("entries", doc.Len()).
		Int("added", added).
		Str("run_id", doc.Meta.RunID).
		Dur("duration", time.Since(start)).
		Msg("Score seed merged")
	return added, nil
}

func (l *Loader) lastLoaded(ctx context.Context) (time.Time, bool) {
	var ms int64
	if err := kvstore.Load(ctx, l.store, NamespaceLoadedAt, &ms); err != nil {
		logging.Warn().Err(err).Msg("Failed to read seed load time")
		return time.Time{}, false
	}
	if ms == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
