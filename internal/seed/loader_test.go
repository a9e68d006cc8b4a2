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
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kunw4r/syllabus/internal/cache"
	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/models"
)

const seedBody = `{
	"_meta": {"run_id": "r1", "count": 3},
	"movie": {"129": {"s": 8.6}, "949": {"s": 7.0}, "5": {"s": null}},
	"tv": {"1399": {"s": 9.1}}
}`

type seedServer struct {
	hits   atomic.Int32
	status atomic.Int32
}

func newSeedServer(t *testing.T) (*seedServer, string) {
	t.Helper()

	s := &seedServer{}
	s.status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if code := int(s.status.Load()); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		fmt.Fprint(w, seedBody)
	}))
	t.Cleanup(srv.Close)
	return s, srv.URL + "/scores.json"
}

type fixture struct {
	loader *Loader
	scores *cache.ScoreStore
	store  *kvstore.MemoryStore
	now    time.Time
}

func newFixture(t *testing.T, url string) *fixture {
	t.Helper()

	store := kvstore.NewMemoryStore(0)
	scores := cache.NewScoreStore(store)
	f := &fixture{
		scores: scores,
		store:  store,
		now:    time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
	f.loader = NewLoader(&config.SeedConfig{URL: url, Timeout: 5 * time.Second}, scores, store)
	f.loader.now = func() time.Time { return f.now }
	return f
}

func TestLoader_MergesAdditively(t *testing.T) {
	t.Parallel()

	_, url := newSeedServer(t)
	f := newFixture(t, url)
	ctx := context.Background()

	live := 6.5
	f.scores.Set(ctx, models.MediaTypeMovie, 949, &live)

	added, err := f.loader.LoadOnce(ctx)
	if err != nil {
		t.Fatalf("LoadOnce() error = %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	if got, _ := f.scores.Get(ctx, models.MediaTypeMovie, 949); got != 6.5 {
		t.Errorf("existing score overwritten: got %v, want 6.5", got)
	}
	if got, ok := f.scores.Get(ctx, models.MediaTypeTV, 1399); !ok || got != 9.1 {
		t.Errorf("tv:1399 = %v, %v", got, ok)
	}
	if _, ok := f.scores.Get(ctx, models.MediaTypeMovie, 5); ok {
		t.Error("null seed score must not be stored")
	}
}

func TestLoader_TTLGate(t *testing.T) {
	t.Parallel()

	srv, url := newSeedServer(t)
	f := newFixture(t, url)
	ctx := context.Background()

	if _, err := f.loader.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	f.now = f.now.Add(DefaultTTL - time.Minute)
	if _, err := f.loader.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if srv.hits.Load() != 1 {
		t.Errorf("hits within TTL = %d, want 1", srv.hits.Load())
	}

	f.now = f.now.Add(time.Minute)
	if _, err := f.loader.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if srv.hits.Load() != 2 {
		t.Errorf("hits after TTL = %d, want 2", srv.hits.Load())
	}
}

func TestLoader_TTLSurvivesRestart(t *testing.T) {
	t.Parallel()

	srv, url := newSeedServer(t)
	f := newFixture(t, url)
	ctx := context.Background()

	if _, err := f.loader.LoadOnce(ctx); err != nil {
		t.Fatal(err)
	}

	// A second process sharing the store sees the persisted timestamp.
	next := NewLoader(&config.SeedConfig{URL: url}, cache.NewScoreStore(f.store), f.store)
	next.now = func() time.Time { return f.now.Add(time.Hour) }
	if _, err := next.LoadOnce(ctx); err != nil {
		t.Fatal(err)
	}
	if srv.hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", srv.hits.Load())
	}
}

func TestLoader_FailureLeavesTimestamp(t *testing.T) {
	t.Parallel()

	srv, url := newSeedServer(t)
	srv.status.Store(http.StatusInternalServerError)
	f := newFixture(t, url)
	ctx := context.Background()

	if _, err := f.loader.LoadOnce(ctx); err == nil {
		t.Fatal("LoadOnce() against failing server succeeded")
	}
	if _, err := f.store.Get(ctx, NamespaceLoadedAt); !errors.Is(err, kvstore.ErrNotFound) {
		t.Errorf("timestamp written after failure: %v", err)
	}

	// The in-process guard blocks an immediate retry.
	srv.status.Store(http.StatusOK)
	if added, err := f.loader.LoadOnce(ctx); added != 0 || err != nil {
		t.Errorf("second LoadOnce() = %d, %v", added, err)
	}
	if srv.hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", srv.hits.Load())
	}

	// Refresh bypasses the guard and succeeds since no timestamp exists.
	if added, err := f.loader.Refresh(ctx); err != nil || added != 3 {
		t.Errorf("Refresh() = %d, %v, want 3, nil", added, err)
	}
}

func TestLoader_NoURL(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")
	if _, err := f.loader.Refresh(context.Background()); !errors.Is(err, ErrNoURL) {
		t.Errorf("Refresh() error = %v, want ErrNoURL", err)
	}
}
