// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package services

import (
	"context"
	"time"

	"github.com/kunw4r/syllabus/internal/logging"
)

// DefaultSeedRefreshInterval is how often the seed TTL is re-checked.
const DefaultSeedRefreshInterval = time.Hour

// SeedLoader is satisfied by *seed.Loader.
type SeedLoader interface {
	LoadOnce(ctx context.Context) (int, error)
	Refresh(ctx context.Context) (int, error)
}

// SeedRefreshService merges the static score seed at startup and then
// re-checks it on an interval. The loader enforces its own TTL, so most
// ticks are no-ops. Failures are logged and retried on the next tick;
// they never stop the service.
type SeedRefreshService struct {
	loader   SeedLoader
	interval time.Duration
	name     string
}

// NewSeedRefreshService creates the service. A non-positive interval
// selects DefaultSeedRefreshInterval.
func NewSeedRefreshService(loader SeedLoader, interval time.Duration) *SeedRefreshService {
	if interval <= 0 {
		interval = DefaultSeedRefreshInterval
	}
	return &SeedRefreshService{
		loader:   loader,
		interval: interval,
		name:     "seed-refresh",
	}
}

// Serve implements suture.Service.
func (s *SeedRefreshService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.name)

	if merged, err := s.loader.LoadOnce(ctx); err != nil {
		log.Warn().Err(err).Msg("Initial seed load failed")
	} else if merged > 0 {
		log.Info().Int("merged", merged).Msg("Seed scores loaded")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			merged, err := s.loader.Refresh(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("Seed refresh failed")
				continue
			}
			if merged > 0 {
				log.Info().Int("merged", merged).Msg("Seed scores refreshed")
			}
		}
	}
}

// String implements fmt.Stringer for suture's log lines.
func (s *SeedRefreshService) String() string {
	return s.name
}
