// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateEnrich(); err != nil {
		return err
	}
	if err := c.validateSeed(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "badger", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for the %s backend", c.Storage.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of badger, sqlite, memory; got %q", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.OMDb.APIKeys) == 0 {
		return errors.New("OMDB_API_KEYS is required (comma-separated list of OMDb API keys)")
	}
	if err := validateHTTPURL(c.OMDb.BaseURL, "OMDB_BASE_URL"); err != nil {
		return err
	}
	if c.OMDb.RequestsPerSecond <= 0 {
		return fmt.Errorf("OMDB_RPS must be positive, got %v", c.OMDb.RequestsPerSecond)
	}

	if c.Jikan.Enabled {
		if err := validateHTTPURL(c.Jikan.BaseURL, "JIKAN_BASE_URL"); err != nil {
			return err
		}
		if c.Jikan.RequestsPerSecond <= 0 {
			return fmt.Errorf("JIKAN_RPS must be positive, got %v", c.Jikan.RequestsPerSecond)
		}
	}

	return validateHTTPURL(c.TMDB.BaseURL, "TMDB_BASE_URL")
}

func (c *Config) validateEnrich() error {
	if c.Enrich.BatchSize < 1 {
		return fmt.Errorf("ENRICH_BATCH_SIZE must be at least 1, got %d", c.Enrich.BatchSize)
	}
	if c.Enrich.BatchDelay < 0 {
		return fmt.Errorf("ENRICH_BATCH_DELAY must not be negative, got %v", c.Enrich.BatchDelay)
	}
	if c.Enrich.CallTimeout <= 0 {
		return fmt.Errorf("ENRICH_CALL_TIMEOUT must be positive, got %v", c.Enrich.CallTimeout)
	}
	if c.Chart.TTL <= 0 {
		return fmt.Errorf("CHART_TTL must be positive, got %v", c.Chart.TTL)
	}
	return nil
}

func (c *Config) validateSeed() error {
	if !c.Seed.Enabled || c.Seed.URL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Seed.URL, "SEED_URL"); err != nil {
		return err
	}
	if c.Seed.TTL <= 0 {
		return fmt.Errorf("SEED_TTL must be positive, got %v", c.Seed.TTL)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxCalls < 0 {
		return fmt.Errorf("BATCH_MAX_CALLS must not be negative, got %d", c.Batch.MaxCalls)
	}
	if c.Batch.Pages < 1 {
		return fmt.Errorf("BATCH_PAGES must be at least 1, got %d", c.Batch.Pages)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
