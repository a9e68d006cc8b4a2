// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/models"
)

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk unavailable")
}

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (failingStore) Close() error {
	return nil
}

func ptr(v float64) *float64 { return &v }

func TestScoreStore_SetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore(0)
	s := NewScoreStore(kv)

	if _, ok := s.Get(ctx, models.MediaTypeMovie, 550); ok {
		t.Fatal("empty store returned a score")
	}

	s.Set(ctx, models.MediaTypeMovie, 550, ptr(8.4))
	s.Set(ctx, models.MediaTypeMovie, 551, nil)
	s.Set(ctx, models.MediaTypeMovie, 0, ptr(5))

	if got, ok := s.Get(ctx, models.MediaTypeMovie, 550); !ok || got != 8.4 {
		t.Errorf("Get(movie, 550) = %v, %v, want 8.4, true", got, ok)
	}
	if _, ok := s.Get(ctx, models.MediaTypeTV, 550); ok {
		t.Error("media types must not share keys")
	}
	if n := s.Len(ctx); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}

	// A fresh store over the same backend sees the write-through.
	reopened := NewScoreStore(kv)
	if got, ok := reopened.Get(ctx, models.MediaTypeMovie, 550); !ok || got != 8.4 {
		t.Errorf("reopened Get = %v, %v, want 8.4, true", got, ok)
	}
}

func TestScoreStore_ApplyStored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewScoreStore(kvstore.NewMemoryStore(0))
	s.Set(ctx, models.MediaTypeTV, 1, ptr(9.1))

	items := []models.CatalogItem{{ID: 1}, {ID: 2, UnifiedRating: ptr(6)}}
	out := s.ApplyStored(ctx, items, models.MediaTypeTV)

	if &out[0] != &items[0] {
		t.Error("ApplyStored must modify and return the same slice")
	}
	if items[0].UnifiedRating == nil || *items[0].UnifiedRating != 9.1 {
		t.Errorf("item 1 rating = %v, want 9.1", items[0].UnifiedRating)
	}
	if *items[1].UnifiedRating != 6 {
		t.Errorf("item without stored score changed: %v", *items[1].UnifiedRating)
	}

	// Idempotent.
	s.ApplyStored(ctx, items, models.MediaTypeTV)
	if *items[0].UnifiedRating != 9.1 {
		t.Errorf("second apply changed rating: %v", *items[0].UnifiedRating)
	}
}

func TestScoreStore_MergeMissing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewScoreStore(kvstore.NewMemoryStore(0))
	s.Set(ctx, models.MediaTypeMovie, 10, ptr(7.7))

	added := s.MergeMissing(ctx, map[string]float64{
		"movie:10": 1.0, // live score wins
		"movie:11": 6.5,
		"tv:12":    8.0,
	})

	if added != 2 {
		t.Errorf("MergeMissing added %d, want 2", added)
	}
	if got, _ := s.Get(ctx, models.MediaTypeMovie, 10); got != 7.7 {
		t.Errorf("existing score overwritten: %v", got)
	}
	if got, ok := s.Get(ctx, models.MediaTypeTV, 12); !ok || got != 8.0 {
		t.Errorf("tv:12 = %v, %v", got, ok)
	}
}

func TestScoreStore_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewScoreStore(kvstore.NewMemoryStore(0))

	var wg sync.WaitGroup
	for i := 1; i <= 30; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.Set(ctx, models.MediaTypeMovie, id, ptr(float64(id%10)))
		}(i)
	}
	wg.Wait()

	if n := NewScoreStore(s.store).Len(ctx); n != 30 {
		t.Errorf("persisted entries = %d, want 30 (lost update)", n)
	}
}

func TestScoreStore_StorageFailureDegrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewScoreStore(failingStore{})

	s.Set(ctx, models.MediaTypeMovie, 1, ptr(5.5))
	if got, ok := s.Get(ctx, models.MediaTypeMovie, 1); !ok || got != 5.5 {
		t.Errorf("in-memory state lost after save failure: %v, %v", got, ok)
	}
}

func TestScoreStore_QuotaExceededDegrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore(8)
	s := NewScoreStore(kv)

	s.Set(ctx, models.MediaTypeMovie, 123456, ptr(5.5))
	if _, ok := s.Get(ctx, models.MediaTypeMovie, 123456); !ok {
		t.Error("score missing from memo after quota failure")
	}
	if kv.Used() != 0 {
		t.Errorf("backend holds %d bytes, want 0", kv.Used())
	}
}

func TestRatingKey(t *testing.T) {
	t.Parallel()

	if got := RatingKey("The Matrix", "1999", models.MediaTypeMovie); got != "the matrix|1999|movie" {
		t.Errorf("RatingKey = %q", got)
	}
}

func TestRatingCache_LookupStates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewRatingCache(kvstore.NewMemoryStore(0))
	key := RatingKey("Heat", "1995", models.MediaTypeMovie)

	if r, ok := c.Lookup(ctx, key); r != nil || ok {
		t.Fatalf("never looked up = %v, %v, want nil, false", r, ok)
	}

	c.Store(ctx, key, nil)
	if r, ok := c.Lookup(ctx, key); r != nil || !ok {
		t.Fatalf("negative = %v, %v, want nil, true", r, ok)
	}

	c.Store(ctx, key, &models.ExternalRatings{IMDbRating: 8.3})
	if r, ok := c.Lookup(ctx, key); !ok || r.IMDbRating != 8.3 {
		t.Fatalf("positive = %v, %v", r, ok)
	}
}

func TestRatingCache_PrunesNegativesOnLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore(0)

	first := NewRatingCache(kv)
	first.Store(ctx, "a|2000|movie", nil)
	first.Store(ctx, "b|2001|movie", &models.ExternalRatings{IMDbRating: 7})

	// Negatives stay cached within the same process.
	if _, ok := first.Lookup(ctx, "a|2000|movie"); !ok {
		t.Fatal("negative marker must be cached within a session")
	}

	second := NewRatingCache(kv)
	if _, ok := second.Lookup(ctx, "a|2000|movie"); ok {
		t.Error("negative marker survived a fresh load")
	}
	if r, ok := second.Lookup(ctx, "b|2001|movie"); !ok || r.IMDbRating != 7 {
		t.Errorf("positive entry lost: %v, %v", r, ok)
	}

	// The pruned document was re-persisted.
	var raw map[string]*models.ExternalRatings
	if err := kvstore.Load(ctx, kv, NamespaceRating, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["a|2000|movie"]; ok {
		t.Error("pruned document was not re-persisted")
	}
}
