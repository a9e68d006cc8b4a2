// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package batch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kunw4r/syllabus/internal/models"
	"github.com/kunw4r/syllabus/internal/seed"
	"github.com/kunw4r/syllabus/internal/sources"
)

type fakeCatalog struct {
	pages map[models.MediaType][][]models.CatalogItem
	calls map[models.MediaType]int
}

func (f *fakeCatalog) Discover(_ context.Context, mt models.MediaType, q sources.DiscoverQuery) (*sources.Page, error) {
	if f.calls == nil {
		f.calls = make(map[models.MediaType]int)
	}
	f.calls[mt]++
	pages := f.pages[mt]
	if q.Page < 1 || q.Page > len(pages) {
		return &sources.Page{Page: q.Page, TotalPages: len(pages)}, nil
	}
	return &sources.Page{Page: q.Page, Results: pages[q.Page-1], TotalPages: len(pages)}, nil
}

// fakeOMDb rates by title and rate-limits after limitAfter calls when set.
type fakeOMDb struct {
	ratings    map[string]*models.ExternalRatings
	errs       map[string]error
	limitAfter int64
	calls      int64
	titles     []string
}

func (f *fakeOMDb) Lookup(_ context.Context, title, _ string, _ models.MediaType) (*models.ExternalRatings, error) {
	if f.limitAfter > 0 && f.calls >= f.limitAfter {
		return nil, sources.ErrRateLimited
	}
	f.calls++
	f.titles = append(f.titles, title)
	if err := f.errs[title]; err != nil {
		return nil, err
	}
	return f.ratings[title], nil
}

func (f *fakeOMDb) Calls() int64 { return f.calls }

type fakeAnime map[string]float64

func (f fakeAnime) LookupAnime(_ context.Context, title string) (*models.AnimeRating, error) {
	if s, ok := f[title]; ok {
		return &models.AnimeRating{Score: s}, nil
	}
	return nil, nil
}

func item(id int, title string) models.CatalogItem {
	return models.CatalogItem{ID: id, Title: title, Name: title, ReleaseDate: "2000-01-01"}
}

func TestRunner_BuildsSeed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	existing := seed.NewDocument()
	old := 5.0
	existing.Put(models.MediaTypeMovie, 1, seed.Entry{Score: &old})
	if err := seed.WriteFile(path, existing); err != nil {
		t.Fatal(err)
	}

	anime := item(4, "Akira")
	anime.OriginalLanguage = "ja"
	anime.GenreIDs = []int{models.GenreAnimation}

	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {
			{item(1, "Old"), item(2, "Heat")},
			{item(3, "Nobody Knows"), anime},
		},
		models.MediaTypeTV: {
			{item(10, "Shogun")},
		},
	}}
	omdb := &fakeOMDb{ratings: map[string]*models.ExternalRatings{
		"Heat":   {IMDbRating: 8.0, RottenTomatoes: 90},
		"Akira":  {IMDbRating: 8.0, RottenTomatoes: 10},
		"Shogun": {IMDbRating: 9.0},
	}}

	r := NewRunner(catalog, omdb, fakeAnime{"Akira": 9.0}, Options{SeedPath: path, Pages: 5})
	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.StopReason != StopCompleted {
		t.Errorf("StopReason = %s", stats.StopReason)
	}
	if stats.Skipped != 1 || stats.Scored != 3 || stats.NoData != 1 || stats.Calls != 4 {
		t.Errorf("stats = %+v", stats)
	}
	if catalog.calls[models.MediaTypeMovie] != 2 {
		t.Errorf("movie pages fetched = %d, want 2 (stops at total_pages)", catalog.calls[models.MediaTypeMovie])
	}

	doc, err := seed.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Meta.RunID != stats.RunID || doc.Meta.Count != 5 || doc.Meta.Calls != 4 {
		t.Errorf("meta = %+v", doc.Meta)
	}
	if e := doc.Movie["1"]; e.Score == nil || *e.Score != 5.0 {
		t.Errorf("existing entry changed: %+v", e)
	}
	if e := doc.Movie["2"]; e.Score == nil || *e.Score != 8.5 || e.IMDb != 8.0 || e.RT != 90 {
		t.Errorf("Heat = %+v", e)
	}
	if e, ok := doc.Movie["3"]; !ok || e.Score != nil {
		t.Errorf("no-data entry = %+v, %v, want stored with null score", e, ok)
	}
	if e := doc.Movie["4"]; e.Score == nil || *e.Score != 8.5 || e.MAL != 9.0 {
		t.Errorf("Akira = %+v", e)
	}
	if e := doc.TV["10"]; e.Score == nil || *e.Score != 9.0 {
		t.Errorf("Shogun = %+v", e)
	}

	// A second run finds nothing new to fetch.
	again, err := NewRunner(catalog, omdb, nil, Options{SeedPath: path, Pages: 5}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again.Calls != 0 || again.Skipped != 5 {
		t.Errorf("second run = %+v", again)
	}
}

func TestRunner_StopsOnBudget(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {{item(1, "A"), item(2, "B"), item(3, "C")}},
	}}
	omdb := &fakeOMDb{}

	stats, err := NewRunner(catalog, omdb, nil, Options{SeedPath: path, MaxCalls: 2, Scope: ScopeMovies}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.StopReason != StopBudget || stats.Calls != 2 {
		t.Errorf("stats = %+v", stats)
	}

	doc, _ := seed.ReadFile(path)
	if doc.Len() != 2 {
		t.Errorf("seed size = %d, want 2", doc.Len())
	}
}

func TestRunner_StopsWhenKeysExhausted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {{item(1, "A"), item(2, "B")}},
		models.MediaTypeTV:    {{item(3, "C")}},
	}}
	omdb := &fakeOMDb{limitAfter: 1, ratings: map[string]*models.ExternalRatings{"A": {IMDbRating: 7}}}

	stats, err := NewRunner(catalog, omdb, nil, Options{SeedPath: path}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.StopReason != StopKeysExhausted {
		t.Errorf("StopReason = %s, want %s", stats.StopReason, StopKeysExhausted)
	}
	if catalog.calls[models.MediaTypeTV] != 0 {
		t.Error("tv catalog walked after keys were exhausted")
	}

	doc, _ := seed.ReadFile(path)
	if !doc.Has(models.MediaTypeMovie, 1) || doc.Has(models.MediaTypeMovie, 2) {
		t.Errorf("seed = %+v", doc.Movie)
	}
}

func TestRunner_ErrorsAreRetriedNextRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeTV: {{item(1, "Flaky")}},
	}}
	omdb := &fakeOMDb{errs: map[string]error{"Flaky": errors.New("timeout")}}

	stats, err := NewRunner(catalog, omdb, nil, Options{SeedPath: path, Scope: ScopeTV}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	doc, _ := seed.ReadFile(path)
	if doc.Has(models.MediaTypeTV, 1) {
		t.Error("failed lookup was recorded in the seed")
	}
}

func TestRunner_CanceledSavesProgress(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	ctx, cancel := context.WithCancel(context.Background())
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {{item(1, "A")}, {item(2, "B")}},
	}}
	omdb := &cancelingOMDb{fakeOMDb: fakeOMDb{}, cancel: cancel}

	stats, err := NewRunner(catalog, omdb, nil, Options{SeedPath: path, Pages: 2, Scope: ScopeMovies}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if stats == nil || stats.StopReason != StopCanceled {
		t.Errorf("stats = %+v", stats)
	}
	doc, _ := seed.ReadFile(path)
	if !doc.Has(models.MediaTypeMovie, 1) {
		t.Error("progress before cancel was not saved")
	}
}

// cancelingOMDb cancels the run after its first lookup.
type cancelingOMDb struct {
	fakeOMDb
	cancel context.CancelFunc
}

func (c *cancelingOMDb) Lookup(ctx context.Context, title, year string, mt models.MediaType) (*models.ExternalRatings, error) {
	defer c.cancel()
	return c.fakeOMDb.Lookup(ctx, title, year, mt)
}

// erringAnime fails every lookup, canceling the run first when cancel is set.
type erringAnime struct {
	err    error
	cancel context.CancelFunc
}

func (e erringAnime) LookupAnime(ctx context.Context, _ string) (*models.AnimeRating, error) {
	if e.cancel != nil {
		e.cancel()
		return nil, ctx.Err()
	}
	return nil, e.err
}

func animeItem(id int, title string) models.CatalogItem {
	it := item(id, title)
	it.OriginalLanguage = "ja"
	it.GenreIDs = []int{models.GenreAnimation}
	return it
}

func TestRunner_AnimeFailureIsRetriedNextRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {{animeItem(1, "Akira"), item(2, "Heat")}},
	}}
	omdb := &fakeOMDb{ratings: map[string]*models.ExternalRatings{
		"Akira": {IMDbRating: 8.0},
		"Heat":  {IMDbRating: 8.3},
	}}

	stats, err := NewRunner(catalog, omdb, erringAnime{err: sources.ErrRateLimited},
		Options{SeedPath: path, Scope: ScopeMovies}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.Errors != 1 || stats.Scored != 1 {
		t.Errorf("stats = %+v, want 1 error and 1 scored", stats)
	}

	doc, _ := seed.ReadFile(path)
	if doc.Has(models.MediaTypeMovie, 1) {
		t.Errorf("anime title stored without its MAL score: %+v", doc.Movie["1"])
	}
	if !doc.Has(models.MediaTypeMovie, 2) {
		t.Error("non-anime title missing from seed")
	}
}

func TestRunner_CanceledDuringAnimeLookup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scores.json")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	catalog := &fakeCatalog{pages: map[models.MediaType][][]models.CatalogItem{
		models.MediaTypeMovie: {{animeItem(1, "Akira")}},
	}}
	omdb := &fakeOMDb{ratings: map[string]*models.ExternalRatings{"Akira": {IMDbRating: 8.0}}}

	stats, err := NewRunner(catalog, omdb, erringAnime{cancel: cancel},
		Options{SeedPath: path, Scope: ScopeMovies}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if stats == nil || stats.StopReason != StopCanceled {
		t.Errorf("stats = %+v", stats)
	}
	doc, _ := seed.ReadFile(path)
	if doc.Has(models.MediaTypeMovie, 1) {
		t.Error("canceled anime lookup was recorded in the seed")
	}
}
