// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package enrich

import (
	"context"
	"sync"
)

// Supersede tracks the latest run per key. Begin cancels the previous run
// for the same key, so only the newest request keeps working.
type Supersede struct {
	mu   sync.Mutex
	next uint64
	runs map[string]supersededRun
}

type supersededRun struct {
	gen    uint64
	cancel context.CancelFunc
}

// NewSupersede creates an empty tracker.
func NewSupersede() *Supersede {
	return &Supersede{runs: make(map[string]supersededRun)}
}

// Begin starts a new generation for key, canceling any previous one.
// The caller must call End with the returned generation when done.
func (s *Supersede) Begin(ctx context.Context, key string) (context.Context, uint64) {
	runCtx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.runs[key]; ok {
		prev.cancel()
	}
	s.next++
	s.runs[key] = supersededRun{gen: s.next, cancel: cancel}
	return runCtx, s.next
}

// Current reports whether gen is still the latest generation for key.
func (s *Supersede) Current(key string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[key]
	return ok && run.gen == gen
}

// End releases gen. It is a no-op if a newer generation has started.
func (s *Supersede) End(key string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run, ok := s.runs[key]; ok && run.gen == gen {
		run.cancel()
		delete(s.runs, key)
	}
}

// Active returns the number of keys with a running generation.
func (s *Supersede) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}
