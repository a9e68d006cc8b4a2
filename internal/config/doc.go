// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package config provides centralized configuration for the Syllabus server and
the batch enrichment job.

# Configuration Sources

Configuration is layered with koanf, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: the explicit path, CONFIG_PATH, or the first of
    DefaultConfigPaths that exists
 3. Environment variables, through an explicit name mapping

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, SHUTDOWN_TIMEOUT

Storage:
  - STORAGE_BACKEND: badger, sqlite or memory (default: badger)
  - STORAGE_PATH: BadgerDB directory or SQLite file (default: /data/syllabus)

Sources:
  - OMDB_API_KEYS: comma-separated key pool (required)
  - OMDB_BASE_URL, OMDB_RPS
  - JIKAN_ENABLED, JIKAN_BASE_URL, JIKAN_RPS
  - TMDB_API_KEY, TMDB_BASE_URL

Enrichment:
  - ENRICH_BATCH_SIZE (default: 3), ENRICH_BATCH_DELAY (default: 500ms)
  - ENRICH_CALL_TIMEOUT (default: 10s)
  - CHART_TTL (default: 24h)

Seed:
  - SEED_URL, SEED_TTL (default: 12h), SEED_REFRESH_INTERVAL

Batch job:
  - BATCH_SEED_PATH, BATCH_MAX_CALLS, BATCH_PAGES, BATCH_SAVE_EVERY

Security and logging:
  - CORS_ORIGINS, RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Unmapped environment variables are ignored.

# Usage

	cfg, err := config.LoadWithKoanf("")
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
