// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

// Package kvstore persists whole JSON documents under string namespaces.
//
// Every cache layer owns exactly one namespace and reads or replaces the
// whole document at once. Backends differ only in where bytes end up:
// BadgerDB (default), SQLite, or process memory.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	// ErrNotFound is returned by Get when a namespace has never been written.
	ErrNotFound = errors.New("kvstore: namespace not found")

	// ErrQuotaExceeded is returned by Put when a bounded backend is full.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kvstore: store closed")
)

// Store is a namespace-keyed document store.
type Store interface {
	// Get returns the raw document for namespace or ErrNotFound.
	Get(ctx context.Context, namespace string) ([]byte, error)

	// Put replaces the document for namespace.
	Put(ctx context.Context, namespace string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// Load decodes the document stored under namespace into v.
// A missing namespace leaves v untouched and returns nil.
func Load(ctx context.Context, s Store, namespace string, v interface{}) error {
	data, err := s.Get(ctx, namespace)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", namespace, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", namespace, err)
	}
	return nil
}

// Save encodes v and stores it under namespace.
func Save(ctx context.Context, s Store, namespace string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", namespace, err)
	}
	if err := s.Put(ctx, namespace, data); err != nil {
		return fmt.Errorf("save %s: %w", namespace, err)
	}
	return nil
}

// Backend names a storage implementation.
type Backend string

const (
	// BackendBadger stores documents in an embedded BadgerDB (default).
	BackendBadger Backend = "badger"

	// BackendSQLite stores documents in a single SQLite table.
	BackendSQLite Backend = "sqlite"

	// BackendMemory keeps documents in process memory (not persistent).
	BackendMemory Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend Backend

	// Path is the BadgerDB directory or SQLite database file.
	Path string

	// SyncWrites makes BadgerDB fsync every write.
	SyncWrites bool

	// QuotaBytes bounds the memory backend. Zero means unbounded.
	QuotaBytes int
}

// Open creates the backend described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendBadger, "":
		s, err := OpenBadger(opts.Path, opts.SyncWrites)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(opts.QuotaBytes), nil
	default:
		return nil, fmt.Errorf("kvstore: unknown backend %q", opts.Backend)
	}
}
