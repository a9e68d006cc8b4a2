// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/syllabus/config.yaml",
	"/etc/syllabus/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	breaker := BreakerConfig{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MaxHalfOpen:  3,
	}

	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    2 * time.Minute, // enrichment responses wait for every batch
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "badger",
			Path:    "/data/syllabus",
		},
		OMDb: OMDbConfig{
			BaseURL:           "https://www.omdbapi.com",
			RequestsPerSecond: 5,
			Burst:             5,
			Timeout:           10 * time.Second,
			Breaker:           breaker,
		},
		Jikan: JikanConfig{
			Enabled:           true,
			BaseURL:           "https://api.jikan.moe/v4",
			RequestsPerSecond: 3,
			Burst:             1,
			Timeout:           10 * time.Second,
			Breaker:           breaker,
		},
		TMDB: TMDBConfig{
			BaseURL: "https://api.themoviedb.org/3",
			Timeout: 10 * time.Second,
			Breaker: breaker,
		},
		Enrich: EnrichConfig{
			BatchSize:   3,
			BatchDelay:  500 * time.Millisecond,
			CallTimeout: 10 * time.Second,
		},
		Chart: ChartConfig{
			TTL: 24 * time.Hour,
		},
		Seed: SeedConfig{
			Enabled:         true,
			TTL:             12 * time.Hour,
			RefreshInterval: time.Hour,
			Timeout:         30 * time.Second,
		},
		Batch: BatchConfig{
			SeedPath:  "data/scores.json",
			MaxCalls:  900,
			Pages:     5,
			SaveEvery: 50,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: configPath when non-empty, else the first file found by findConfigFile
//  3. Environment Variables: Override any setting
func LoadWithKoanf(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless given explicitly)
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"omdb.api_keys",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",

	// Storage
	"storage_backend":     "storage.backend",
	"storage_path":        "storage.path",
	"storage_sync_writes": "storage.sync_writes",

	// OMDb
	"omdb_api_keys": "omdb.api_keys",
	"omdb_api_key":  "omdb.api_keys",
	"omdb_base_url": "omdb.base_url",
	"omdb_rps":      "omdb.requests_per_second",
	"omdb_timeout":  "omdb.timeout",

	// Jikan
	"jikan_enabled":  "jikan.enabled",
	"jikan_base_url": "jikan.base_url",
	"jikan_rps":      "jikan.requests_per_second",

	// TMDB
	"tmdb_api_key":  "tmdb.api_key",
	"tmdb_base_url": "tmdb.base_url",

	// Enrichment
	"enrich_batch_size":   "enrich.batch_size",
	"enrich_batch_delay":  "enrich.batch_delay",
	"enrich_call_timeout": "enrich.call_timeout",
	"chart_ttl":           "chart.ttl",

	// Seed
	"seed_enabled":          "seed.enabled",
	"seed_url":              "seed.url",
	"seed_ttl":              "seed.ttl",
	"seed_refresh_interval": "seed.refresh_interval",

	// Batch job
	"batch_seed_path":  "batch.seed_path",
	"batch_max_calls":  "batch.max_calls",
	"batch_pages":      "batch.pages",
	"batch_save_every": "batch.save_every",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - OMDB_API_KEYS -> omdb.api_keys
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//
// Unmapped keys return an empty string so unrelated environment variables
// never pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
