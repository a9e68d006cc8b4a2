// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package kvstore

import (
	"context"
	"sync"
)

// MemoryStore implements Store in process memory with an optional byte quota.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string][]byte
	quota  int
	used   int
	closed bool
}

// NewMemoryStore creates a MemoryStore. quota <= 0 means unbounded.
func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte), quota: quota}
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, namespace string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	data, ok := m.docs[namespace]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, namespace string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	used := m.used - len(m.docs[namespace]) + len(data)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[namespace] = stored
	m.used = used
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Used returns the number of bytes currently stored.
func (m *MemoryStore) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
