// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
	"github.com/kunw4r/syllabus/internal/rating"
	"github.com/kunw4r/syllabus/internal/sources"
)

// ErrCanceled is returned when the context ends before the run completes.
// It wraps the context error.
var ErrCanceled = errors.New("enrich: canceled")

// Defaults used when Options fields are zero.
const (
	DefaultBatchSize   = 3
	DefaultBatchDelay  = 500 * time.Millisecond
	DefaultCallTimeout = 10 * time.Second
)

// RatingSource looks up external ratings by title. *sources.OMDbClient
// satisfies it.
type RatingSource interface {
	Lookup(ctx context.Context, title, year string, mediaType models.MediaType) (*models.ExternalRatings, error)
}

// AnimeSource looks up anime scores by title. *sources.JikanClient
// satisfies it.
type AnimeSource interface {
	LookupAnime(ctx context.Context, title string) (*models.AnimeRating, error)
}

// ProgressFunc receives progress events. It is called from the goroutine
// running Enrich, never concurrently.
type ProgressFunc func(models.EnrichmentProgress)

// Options tunes batching.
type Options struct {
	BatchSize   int
	BatchDelay  time.Duration
	CallTimeout time.Duration
}

// OptionsFromConfig converts the enrich config section.
func OptionsFromConfig(cfg *config.EnrichConfig) Options {
	return Options{
		BatchSize:   cfg.BatchSize,
		BatchDelay:  cfg.BatchDelay,
		CallTimeout: cfg.CallTimeout,
	}
}

func (o *Options) applyDefaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchDelay < 0 {
		o.BatchDelay = 0
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DefaultCallTimeout
	}
}

// Orchestrator runs enrichment passes. It is safe for concurrent use; the
// cache layers serialize their own state.
type Orchestrator struct {
	scores  *cache.ScoreStore
	ratings *cache.RatingCache
	charts  *cache.ChartCache
	omdb    RatingSource
	anime   AnimeSource
	opts    Options

	// wait pauses between batches.
	wait func(ctx context.Context, d time.Duration) error
}

// New creates an Orchestrator. anime may be nil to skip MyAnimeList lookups,
// and charts may be nil when no chart snapshots are kept.
func New(scores *cache.ScoreStore, ratings *cache.RatingCache, charts *cache.ChartCache,
	omdb RatingSource, anime AnimeSource, opts Options) *Orchestrator {
	opts.applyDefaults()
	return &Orchestrator{
		scores:  scores,
		ratings: ratings,
		charts:  charts,
		omdb:    omdb,
		anime:   anime,
		opts:    opts,
		wait:    sleepCtx,
	}
}

// Enrich returns a sorted copy of items with UnifiedRating filled in where
// a score could be found or computed. onProgress may be nil.
//
// Per-item failures are logged and leave the item unrated. A rate limit from
// the rating source ends the run early; the partial result is still sorted,
// cached and returned without error.
func (o *Orchestrator) Enrich(ctx context.Context, items []models.CatalogItem, mediaType models.MediaType,
	chartKey string, onProgress ProgressFunc) ([]models.CatalogItem, error) {
	if onProgress == nil {
		onProgress = func(models.EnrichmentProgress) {}
	}
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	log := logging.Ctx(ctx)
	start := time.Now()

	out := make([]models.CatalogItem, len(items))
	copy(out, items)

	// The Score Store decides what is scored; a unified rating carried in
	// by the caller is discarded.
	pending := make([]int, 0, len(out))
	for i := range out {
		if score, ok := o.scores.Get(ctx, mediaType, out[i].ID); ok {
			out[i].UnifiedRating = &score
			metrics.RecordEnrichItem(metrics.OutcomeStored)
			continue
		}
		out[i].UnifiedRating = nil
		pending = append(pending, i)
	}

	total := len(pending)
	if total > 0 {
		onProgress(models.EnrichmentProgress{Completed: 0, Total: total, Phase: models.PhaseEnriching})
	}

	completed := 0
	for batchStart := 0; batchStart < total; batchStart += o.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		batchEnd := min(batchStart+o.opts.BatchSize, total)
		limited := o.runBatch(ctx, out, pending[batchStart:batchEnd], mediaType)
		metrics.EnrichBatches.Inc()

		if err := ctx.Err(); err != nil {
			return nil, canceled(err)
		}

		completed = batchEnd
		if limited {
			metrics.EnrichRateLimitAborts.Inc()
			log.Warn().
				Int("completed", completed).
				Int("total", total).
				Msg("Rating source rate limited, stopping enrichment early")
			break
		}

		onProgress(models.EnrichmentProgress{Completed: completed, Total: total, Phase: models.PhaseEnriching})

		if batchEnd < total {
			if err := o.wait(ctx, o.opts.BatchDelay); err != nil {
				return nil, canceled(err)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rating.Best(&out[i]) > rating.Best(&out[j])
	})

	if chartKey != "" && o.charts != nil {
		o.charts.Save(ctx, chartKey, out)
	}

	onProgress(models.EnrichmentProgress{Completed: total, Total: total, Phase: models.PhaseDone})

	metrics.EnrichRunDuration.Observe(time.Since(start).Seconds())
	log.Debug().
		Str("media_type", string(mediaType)).
		Int("items", len(out)).
		Int("fetched", completed).
		Dur("duration", time.Since(start)).
		Msg("Enrichment complete")

	return out, nil
}

// runBatch enriches out[idx] for each idx concurrently. Each goroutine writes
// only its own element. Returns true when the rating source was rate limited.
func (o *Orchestrator) runBatch(ctx context.Context, out []models.CatalogItem, indices []int, mediaType models.MediaType) bool {
	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		limited atomic.Bool
	)
	for _, idx := range indices {
		wg.Add(1)
		go func(item *models.CatalogItem) {
			defer wg.Done()
			if err := o.enrichItem(batchCtx, item, mediaType); errors.Is(err, sources.ErrRateLimited) {
				limited.Store(true)
				cancel()
			}
		}(&out[idx])
	}
	wg.Wait()

	return limited.Load()
}

// enrichItem fetches ratings for one item and records its unified rating.
// Only ErrRateLimited is returned; other failures are logged and leave the
// item unrated.
func (o *Orchestrator) enrichItem(ctx context.Context, item *models.CatalogItem, mediaType models.MediaType) error {
	title := item.DisplayTitle()
	if title == "" {
		metrics.RecordEnrichItem(metrics.OutcomeNoData)
		return nil
	}
	year := item.Year()
	key := cache.RatingKey(title, year, mediaType)
	isAnime := rating.IsAnime(item)
	log := logging.CtxWith(ctx).Int("id", item.ID).Str("title", title).Logger()

	outcome := metrics.OutcomeCached
	ext, cached := o.ratings.Lookup(ctx, key)
	if !cached {
		outcome = metrics.OutcomeFetched
		callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
		fetched, err := o.omdb.Lookup(callCtx, title, year, mediaType)
		cancel()

		switch {
		case errors.Is(err, sources.ErrRateLimited):
			metrics.RecordEnrichItem(metrics.OutcomeError)
			return err
		case err != nil:
			metrics.RecordEnrichItem(metrics.OutcomeError)
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("Rating lookup failed")
			}
			return nil
		}
		ext = fetched
		o.ratings.Store(ctx, key, ext)
	}

	var anime *models.AnimeRating
	if isAnime && o.anime != nil {
		callCtx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
		result, err := o.anime.LookupAnime(callCtx, title)
		cancel()
		if err != nil {
			metrics.RecordEnrichItem(metrics.OutcomeError)
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("Anime lookup failed")
			}
			return nil
		}
		anime = result
	}

	// A run canceled mid-item must not persist a partial score.
	if ctx.Err() != nil {
		metrics.RecordEnrichItem(metrics.OutcomeError)
		return nil
	}

	unified := rating.ComputeUnified(ext, anime, isAnime)
	if unified == nil {
		metrics.RecordEnrichItem(metrics.OutcomeNoData)
		return nil
	}

	item.UnifiedRating = unified
	o.scores.Set(ctx, mediaType, item.ID, unified)
	metrics.RecordEnrichItem(outcome)
	return nil
}

func canceled(err error) error {
	metrics.EnrichCanceled.Inc()
	return fmt.Errorf("%w: %w", ErrCanceled, err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
