// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/models"
)

// fakeClock is a settable clock for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestChartKey(t *testing.T) {
	t.Parallel()

	if got := ChartKey(models.MediaTypeTV, "16"); got != "tv:16" {
		t.Errorf("ChartKey = %q", got)
	}
	if got := ChartKey(models.MediaTypeMovie, ChartScopeAll); got != "movie:all" {
		t.Errorf("ChartKey = %q", got)
	}
}

func TestChartCache_TTLBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		advance time.Duration
		want    bool
	}{
		{"fresh", 0, true},
		{"just before ttl", 24*time.Hour - time.Millisecond, true},
		{"exactly ttl", 24 * time.Hour, false},
		{"past ttl", 25 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
			c := NewChartCache(kvstore.NewMemoryStore(0), ChartConfig{Now: clock.Now})

			c.Save(ctx, "movie:all", []models.CatalogItem{{ID: 1, Title: "Heat"}})
			clock.Advance(tt.advance)

			_, ok := c.Get(ctx, "movie:all")
			if ok != tt.want {
				t.Errorf("Get after %v = %v, want %v", tt.advance, ok, tt.want)
			}
			if age := c.Age(ctx, "movie:all"); age != tt.advance {
				t.Errorf("Age = %v, want %v", age, tt.advance)
			}
		})
	}
}

func TestChartCache_AgeMissing(t *testing.T) {
	t.Parallel()

	c := NewChartCache(kvstore.NewMemoryStore(0), ChartConfig{})
	if age := c.Age(context.Background(), "tv:all"); age != InfiniteAge {
		t.Errorf("Age(missing) = %v, want InfiniteAge", age)
	}
}

func TestChartCache_SavesSlimProjection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore(0)
	c := NewChartCache(kv, ChartConfig{})

	c.Save(ctx, "tv:16", []models.CatalogItem{{
		ID:           7,
		Name:         "Frieren",
		BackdropPath: "/huge.jpg",
		Overview:     strings.Repeat("x", 500),
	}})

	reopened := NewChartCache(kv, ChartConfig{})
	items, ok := reopened.Get(ctx, "tv:16")
	if !ok || len(items) != 1 {
		t.Fatalf("Get = %v, %v", items, ok)
	}
	if len(items[0].Overview) != models.SlimOverviewLength {
		t.Errorf("overview length = %d, want %d", len(items[0].Overview), models.SlimOverviewLength)
	}
	if items[0].Name != "Frieren" {
		t.Errorf("Name = %q", items[0].Name)
	}
}

func TestChartCache_VersionGate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore(0)

	v1 := NewChartCache(kv, ChartConfig{Version: 1})
	v1.Save(ctx, "movie:all", []models.CatalogItem{{ID: 1}})
	v1.Save(ctx, "movie:28", []models.CatalogItem{{ID: 2}})

	v2 := NewChartCache(kv, ChartConfig{Version: 2})
	if _, ok := v2.Get(ctx, "movie:all"); ok {
		t.Error("entry written under version 1 visible under version 2")
	}
	if n := v2.Len(ctx); n != 0 {
		t.Errorf("Len after version change = %d, want 0", n)
	}

	v2.Save(ctx, "tv:all", []models.CatalogItem{{ID: 3}})
	again := NewChartCache(kv, ChartConfig{Version: 2})
	if _, ok := again.Get(ctx, "tv:all"); !ok {
		t.Error("entry written under version 2 missing")
	}
	if _, ok := again.Get(ctx, "movie:28"); ok {
		t.Error("discarded version 1 entry came back")
	}
}

func TestChartCache_StorageFailureDegrades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := NewChartCache(failingStore{}, ChartConfig{})

	c.Save(ctx, "movie:all", []models.CatalogItem{{ID: 1}})
	if _, ok := c.Get(ctx, "movie:all"); !ok {
		t.Error("in-memory snapshot lost after save failure")
	}
}
