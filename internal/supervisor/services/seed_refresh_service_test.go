// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSeedLoader struct {
	loads     atomic.Int32
	refreshes atomic.Int32
	err       error
}

func (f *fakeSeedLoader) LoadOnce(context.Context) (int, error) {
	f.loads.Add(1)
	return 5, f.err
}

func (f *fakeSeedLoader) Refresh(context.Context) (int, error) {
	f.refreshes.Add(1)
	return 0, f.err
}

func TestSeedRefreshService(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"healthy", nil},
		{"failures keep the service alive", errors.New("seed unreachable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeSeedLoader{err: tt.err}
			svc := NewSeedRefreshService(loader, 10*time.Millisecond)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want deadline exceeded", err)
			}
			if loader.loads.Load() != 1 {
				t.Errorf("LoadOnce called %d times, want 1", loader.loads.Load())
			}
			if loader.refreshes.Load() < 2 {
				t.Errorf("Refresh called %d times, want several", loader.refreshes.Load())
			}
		})
	}
}

func TestNewSeedRefreshService_DefaultInterval(t *testing.T) {
	svc := NewSeedRefreshService(&fakeSeedLoader{}, 0)
	if svc.interval != DefaultSeedRefreshInterval || svc.String() != "seed-refresh" {
		t.Errorf("defaults = %v %q", svc.interval, svc.String())
	}
}
