// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

// Package batch builds the static score seed offline by walking TMDB
// discover pages and rating every title not already in the seed file.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
	"github.com/kunw4r/syllabus/internal/rating"
	"github.com/kunw4r/syllabus/internal/seed"
	"github.com/kunw4r/syllabus/internal/sources"
)

// Scope selects which catalogs a run walks.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopeMovies Scope = "movies"
	ScopeTV     Scope = "tv"
)

// Stop reasons reported in Stats.
const (
	StopCompleted     = "completed"
	StopBudget        = "call_budget"
	StopKeysExhausted = "keys_exhausted"
	StopCanceled      = "canceled"
	StopFailed        = "failed"
)

// discoverSort walks titles most people have rated first.
const discoverSort = "vote_count.desc"

// Catalog lists titles to rate. *sources.TMDBClient satisfies it.
type Catalog interface {
	Discover(ctx context.Context, mediaType models.MediaType, q sources.DiscoverQuery) (*sources.Page, error)
}

// RatingSource is the OMDb client as seen by the job.
type RatingSource interface {
	Lookup(ctx context.Context, title, year string, mediaType models.MediaType) (*models.ExternalRatings, error)
	Calls() int64
}

// AnimeSource looks up MyAnimeList scores.
type AnimeSource interface {
	LookupAnime(ctx context.Context, title string) (*models.AnimeRating, error)
}

// Options configures a run.
type Options struct {
	SeedPath  string
	MaxCalls  int
	Pages     int
	SaveEvery int
	Scope     Scope
}

// OptionsFromConfig converts the batch config section.
func OptionsFromConfig(cfg *config.BatchConfig) Options {
	return Options{
		SeedPath:  cfg.SeedPath,
		MaxCalls:  cfg.MaxCalls,
		Pages:     cfg.Pages,
		SaveEvery: cfg.SaveEvery,
		Scope:     ScopeAll,
	}
}

// Stats summarizes a run.
type Stats struct {
	RunID      string        `json:"run_id"`
	Pages      int           `json:"pages"`
	Seen       int           `json:"seen"`
	Skipped    int           `json:"skipped"`
	Scored     int           `json:"scored"`
	NoData     int           `json:"no_data"`
	Errors     int           `json:"errors"`
	Calls      int64         `json:"calls"`
	SeedSize   int           `json:"seed_size"`
	StopReason string        `json:"stop_reason"`
	Duration   time.Duration `json:"duration"`
}

// Runner executes batch runs.
type Runner struct {
	catalog Catalog
	omdb    RatingSource
	anime   AnimeSource
	opts    Options
	now     func() time.Time
}

// NewRunner creates a Runner. anime may be nil.
func NewRunner(catalog Catalog, omdb RatingSource, anime AnimeSource, opts Options) *Runner {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	return &Runner{catalog: catalog, omdb: omdb, anime: anime, opts: opts, now: time.Now}
}

// run carries the state of one Run call.
type run struct {
	*Runner
	doc       *seed.Document
	stats     *Stats
	baseCalls int64
	unsaved   int
}

// errStop ends the walk without failing the run.
type errStop struct{ reason string }

func (e errStop) Error() string { return "batch stopped: " + e.reason }

// Run walks the configured catalogs and updates the seed file. Hitting the
// call budget or exhausting every key ends the run normally; the seed is
// saved either way. A canceled context also saves before returning the error.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()

	doc, err := seed.ReadFile(r.opts.SeedPath)
	if err != nil {
		return nil, err
	}

	st := &run{
		Runner:    r,
		doc:       doc,
		stats:     &Stats{RunID: uuid.New().String(), StopReason: StopCompleted},
		baseCalls: r.omdb.Calls(),
	}
	ctx = logging.ContextWithCorrelationID(ctx, st.stats.RunID[:8])
	log := logging.Ctx(ctx)

	log.Info().
		Str("seed_path", r.opts.SeedPath).
		Int("existing", doc.Len()).
		Int("max_calls", r.opts.MaxCalls).
		Str("scope", string(r.opts.Scope)).
		Msg("Batch enrichment started")

	var runErr error
	for _, mt := range r.mediaTypes() {
		if err := st.walk(ctx, mt); err != nil {
			var stop errStop
			if errors.As(err, &stop) {
				st.stats.StopReason = stop.reason
			} else {
				st.stats.StopReason = StopFailed
				if ctx.Err() != nil {
					st.stats.StopReason = StopCanceled
				}
				runErr = err
			}
			break
		}
	}

	st.stats.Calls = r.omdb.Calls() - st.baseCalls
	if err := st.save(); err != nil {
		return st.stats, err
	}
	st.stats.SeedSize = doc.Len()
	st.stats.Duration = time.Since(start)

	log.Info().
		Str("stop_reason", st.stats.StopReason).
		Int("scored", st.stats.Scored).
		Int("no_data", st.stats.NoData).
		Int("skipped", st.stats.Skipped).
		Int64("calls", st.stats.Calls).
		Int("seed_size", st.stats.SeedSize).
		Dur("duration", st.stats.Duration).
		Msg("Batch enrichment finished")

	return st.stats, runErr
}

func (r *Runner) mediaTypes() []models.MediaType {
	switch r.opts.Scope {
	case ScopeMovies:
		return []models.MediaType{models.MediaTypeMovie}
	case ScopeTV:
		return []models.MediaType{models.MediaTypeTV}
	default:
		return []models.MediaType{models.MediaTypeMovie, models.MediaTypeTV}
	}
}

func (st *run) walk(ctx context.Context, mt models.MediaType) error {
	log := logging.Ctx(ctx)

	for p := 1; p <= st.opts.Pages; p++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := st.catalog.Discover(ctx, mt, sources.DiscoverQuery{Page: p, SortBy: discoverSort})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			st.stats.Errors++
			log.Warn().Err(err).Str("media_type", string(mt)).Int("page", p).Msg("Discover page failed")
			continue
		}
		st.stats.Pages++

		for i := range page.Results {
			if err := st.rateItem(ctx, mt, &page.Results[i]); err != nil {
				return err
			}
		}

		if page.TotalPages > 0 && p >= page.TotalPages {
			break
		}
	}
	return nil
}

func (st *run) rateItem(ctx context.Context, mt models.MediaType, item *models.CatalogItem) error {
	st.stats.Seen++
	if item.ID <= 0 || st.doc.Has(mt, item.ID) {
		st.stats.Skipped++
		metrics.BatchEntries.WithLabelValues(string(mt), "skipped").Inc()
		return nil
	}

	if st.opts.MaxCalls > 0 && st.omdb.Calls()-st.baseCalls >= int64(st.opts.MaxCalls) {
		return errStop{reason: StopBudget}
	}

	title := item.DisplayTitle()
	ext, err := st.omdb.Lookup(ctx, title, item.Year(), mt)
	switch {
	case errors.Is(err, sources.ErrRateLimited):
		return errStop{reason: StopKeysExhausted}
	case err != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		st.stats.Errors++
		metrics.BatchEntries.WithLabelValues(string(mt), "error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Int("id", item.ID).Str("title", title).Msg("Rating lookup failed")
		return nil
	}

	isAnime := rating.IsAnime(item)
	var anime *models.AnimeRating
	if isAnime && st.anime != nil {
		anime, err = st.anime.LookupAnime(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Left out of the seed so the next run retries it.
			st.stats.Errors++
			metrics.BatchEntries.WithLabelValues(string(mt), "error").Inc()
			logging.Ctx(ctx).Warn().Err(err).Int("id", item.ID).Str("title", title).Msg("Anime lookup failed")
			return nil
		}
	}

	entry := seed.Entry{Score: rating.ComputeUnified(ext, anime, isAnime), Title: title}
	if ext != nil {
		entry.IMDb = ext.IMDbRating
		entry.RT = ext.RottenTomatoes
	}
	if anime != nil {
		entry.MAL = anime.Score
	}
	st.doc.Put(mt, item.ID, entry)

	if entry.Score == nil {
		st.stats.NoData++
		metrics.BatchEntries.WithLabelValues(string(mt), "no_data").Inc()
	} else {
		st.stats.Scored++
		metrics.BatchEntries.WithLabelValues(string(mt), "scored").Inc()
	}

	st.unsaved++
	if st.opts.SaveEvery > 0 && st.unsaved >= st.opts.SaveEvery {
		if err := st.save(); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}

func (st *run) save() error {
	st.doc.Meta.GeneratedAt = st.now().UTC()
	st.doc.Meta.RunID = st.stats.RunID
	st.doc.Meta.Calls = st.omdb.Calls() - st.baseCalls
	if err := seed.WriteFile(st.opts.SeedPath, st.doc); err != nil {
		return err
	}
	st.unsaved = 0
	return nil
}
