// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package sources

import (
	"strings"
	"sync"

	"github.com/kunw4r/syllabus/internal/metrics"
)

// KeyPool rotates through API keys, skipping keys that hit their quota.
type KeyPool struct {
	mu        sync.Mutex
	keys      []string
	exhausted []bool
	current   int
	available int
}

// NewKeyPool creates a pool from keys, dropping blanks and duplicates.
func NewKeyPool(keys []string) *KeyPool {
	seen := make(map[string]bool, len(keys))
	unique := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, k)
	}

	p := &KeyPool{
		keys:      unique,
		exhausted: make([]bool, len(unique)),
		available: len(unique),
	}
	metrics.OMDbKeysAvailable.Set(float64(p.available))
	return p
}

// Current returns the key in use, or false when every key is exhausted.
func (p *KeyPool) Current() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.available == 0 {
		return "", false
	}
	return p.keys[p.current], true
}

// MarkExhausted marks key as spent and advances to the next usable key.
// Concurrent callers reporting the same key rotate only once.
// Returns whether any key remains usable.
func (p *KeyPool) MarkExhausted(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, k := range p.keys {
		if k != key || p.exhausted[i] {
			continue
		}
		p.exhausted[i] = true
		p.available--
		metrics.OMDbKeyRotations.Inc()
		metrics.OMDbKeysAvailable.Set(float64(p.available))
		break
	}

	if p.available == 0 {
		return false
	}
	for step := 0; step < len(p.keys); step++ {
		i := (p.current + step) % len(p.keys)
		if !p.exhausted[i] {
			p.current = i
			break
		}
	}
	return true
}

// Available returns the number of keys not yet exhausted.
func (p *KeyPool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available
}

// Size returns the number of keys in the pool.
func (p *KeyPool) Size() int {
	return len(p.keys)
}

// Reset makes every key usable again. Upstream quotas are daily.
func (p *KeyPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.exhausted {
		p.exhausted[i] = false
	}
	p.current = 0
	p.available = len(p.keys)
	metrics.OMDbKeysAvailable.Set(float64(p.available))
}
