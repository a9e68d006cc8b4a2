// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Enrichment item outcomes.
const (
	OutcomeStored  = "stored"
	OutcomeCached  = "cached"
	OutcomeFetched = "fetched"
	OutcomeNoData  = "no_data"
	OutcomeError   = "error"
)

// Cache layers and lookup results.
const (
	LayerScores = "scores"
	LayerRating = "rating"
	LayerChart  = "chart"

	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultNegative = "negative"
)

var (
	// Enrichment Metrics
	EnrichItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrich_items_total",
			Help: "Total number of catalog items processed by enrichment, by outcome",
		},
		[]string{"outcome"},
	)

	EnrichBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrich_batches_total",
			Help: "Total number of enrichment batches executed",
		},
	)

	EnrichRateLimitAborts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrich_rate_limit_aborts_total",
			Help: "Total number of enrichment runs aborted by the OMDb rate limit",
		},
	)

	EnrichCanceled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrich_canceled_total",
			Help: "Total number of enrichment runs canceled or superseded",
		},
	)

	EnrichRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enrich_run_duration_seconds",
			Help:    "Duration of enrichment runs in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Total number of cache lookups by layer and result",
		},
		[]string{"layer", "result"},
	)

	CachePersistErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_persist_errors_total",
			Help: "Total number of storage failures absorbed by cache layers",
		},
		[]string{"layer", "op"}, // op: "load", "save"
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries held by each cache layer",
		},
		[]string{"layer"},
	)

	// Source Metrics
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_requests_total",
			Help: "Total number of requests to external rating and content sources",
		},
		[]string{"source", "status"}, // status: "ok", "not_found", "rate_limited", "error"
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_request_duration_seconds",
			Help:    "External source request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	OMDbKeyRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "omdb_key_rotations_total",
			Help: "Total number of OMDb API key rotations after a limit response",
		},
	)

	OMDbKeysAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "omdb_keys_available",
			Help: "Number of OMDb API keys not yet exhausted",
		},
	)

	// Seed Metrics
	SeedLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seed_loads_total",
			Help: "Total number of static score seed load attempts by result",
		},
		[]string{"result"}, // result: "skipped", "loaded", "failed"
	)

	SeedScoresMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seed_scores_merged_total",
			Help: "Total number of seed scores merged into the score store",
		},
	)

	// Batch Job Metrics
	BatchEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_entries_total",
			Help: "Total number of seed entries written by the batch job",
		},
		[]string{"media_type", "outcome"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSourceRequest records one call to an external source.
func RecordSourceRequest(source, status string, duration time.Duration) {
	SourceRequests.WithLabelValues(source, status).Inc()
	SourceRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCacheLookup records a cache lookup result for a layer.
func RecordCacheLookup(layer, result string) {
	CacheLookups.WithLabelValues(layer, result).Inc()
}

// RecordPersistError records a storage failure absorbed by a cache layer.
func RecordPersistError(layer, op string) {
	CachePersistErrors.WithLabelValues(layer, op).Inc()
}

// RecordEnrichItem records the outcome of one catalog item.
func RecordEnrichItem(outcome string) {
	EnrichItems.WithLabelValues(outcome).Inc()
}
