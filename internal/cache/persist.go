// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package cache

import (
	"context"

	"github.com/kunw4r/syllabus/internal/kvstore"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
)

// Storage namespaces.
const (
	NamespaceScores = "scores"
	NamespaceRating = "omdb_cache"
	NamespaceChart  = "chart_cache"
)

// loadDocument decodes namespace into v, logging and counting failures.
func loadDocument(ctx context.Context, store kvstore.Store, namespace, layer string, v interface{}) bool {
	if err := kvstore.Load(ctx, store, namespace, v); err != nil {
		metrics.RecordPersistError(layer, "load")
		logging.Warn().Err(err).Str("namespace", namespace).Msg("Cache load failed, continuing without persisted data")
		return false
	}
	return true
}

// saveDocument persists v under namespace, logging and counting failures.
func saveDocument(ctx context.Context, store kvstore.Store, namespace, layer string, v interface{}) {
	if err := kvstore.Save(ctx, store, namespace, v); err != nil {
		metrics.RecordPersistError(layer, "save")
		logging.Warn().Err(err).Str("namespace", namespace).Msg("Cache save failed, keeping in-memory state")
	}
}
