// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	OMDb     OMDbConfig     `koanf:"omdb"`
	Jikan    JikanConfig    `koanf:"jikan"`
	TMDB     TMDBConfig     `koanf:"tmdb"`
	Enrich   EnrichConfig   `koanf:"enrich"`
	Chart    ChartConfig    `koanf:"chart"`
	Seed     SeedConfig     `koanf:"seed"`
	Batch    BatchConfig    `koanf:"batch"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects the key-value backend for the cache layers.
type StorageConfig struct {
	Backend    string `koanf:"backend"` // badger, sqlite, memory
	Path       string `koanf:"path"`
	SyncWrites bool   `koanf:"sync_writes"`
	QuotaBytes int    `koanf:"quota_bytes"` // memory backend only
}

// BreakerConfig tunes a source circuit breaker.
type BreakerConfig struct {
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MaxHalfOpen  uint32        `koanf:"max_half_open"`
}

// OMDbConfig configures the secondary rating source.
type OMDbConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKeys           []string      `koanf:"api_keys"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Timeout           time.Duration `koanf:"timeout"`
	Breaker           BreakerConfig `koanf:"breaker"`
}

// JikanConfig configures the MyAnimeList source.
type JikanConfig struct {
	Enabled           bool          `koanf:"enabled"`
	BaseURL           string        `koanf:"base_url"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	Timeout           time.Duration `koanf:"timeout"`
	Breaker           BreakerConfig `koanf:"breaker"`
}

// TMDBConfig configures the primary content source.
type TMDBConfig struct {
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// EnrichConfig tunes the enrichment orchestrator.
type EnrichConfig struct {
	BatchSize   int           `koanf:"batch_size"`
	BatchDelay  time.Duration `koanf:"batch_delay"`
	CallTimeout time.Duration `koanf:"call_timeout"`
}

// ChartConfig tunes the chart cache.
type ChartConfig struct {
	TTL     time.Duration `koanf:"ttl"`
	Version int           `koanf:"version"`
}

// SeedConfig configures the static score seed loader.
type SeedConfig struct {
	Enabled         bool          `koanf:"enabled"`
	URL             string        `koanf:"url"`
	TTL             time.Duration `koanf:"ttl"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	Timeout         time.Duration `koanf:"timeout"`
}

// BatchConfig configures the offline batch enrichment job.
type BatchConfig struct {
	SeedPath  string `koanf:"seed_path"`
	MaxCalls  int    `koanf:"max_calls"`
	Pages     int    `koanf:"pages"`
	SaveEvery int    `koanf:"save_every"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
