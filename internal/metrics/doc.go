// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package metrics provides Prometheus metrics for the enrichment pipeline.

All collectors are registered on the default registry through promauto and
exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Enrichment:
  - enrich_items_total{outcome}: items by outcome (stored, cached, fetched, no_data, error)
  - enrich_batches_total: batches executed
  - enrich_rate_limit_aborts_total: runs aborted because every OMDb key was exhausted
  - enrich_run_duration_seconds: wall time of a whole run

Caches:
  - cache_lookups_total{layer,result}: score/rating/chart lookups (hit, miss, negative)
  - cache_persist_errors_total{layer,op}: storage failures that degraded to no caching
  - cache_entries{layer}: entries held by each layer

Sources:
  - source_requests_total{source,status}: OMDb, Jikan, TMDB and seed requests
  - source_request_duration_seconds{source}
  - omdb_key_rotations_total, omdb_keys_available

Seed:
  - seed_loads_total{result}: skipped, loaded, failed
  - seed_scores_merged_total

Circuit breakers, HTTP and WebSocket collectors follow the usual naming.
*/
package metrics
