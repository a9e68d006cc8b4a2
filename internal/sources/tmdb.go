// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

const sourceTMDB = "tmdb"

// ErrNoTMDBKey is returned when TMDB is used without an API key.
var ErrNoTMDBKey = errors.New("tmdb: api key not configured")

// DefaultSortBy orders discover results by popularity.
const DefaultSortBy = "popularity.desc"

// Page is one page of TMDB list results.
type Page struct {
	Page         int                  `json:"page"`
	Results      []models.CatalogItem `json:"results"`
	TotalPages   int                  `json:"total_pages"`
	TotalResults int                  `json:"total_results"`
}

// DiscoverQuery filters a TMDB discover call. Zero values are omitted.
type DiscoverQuery struct {
	Page     int
	GenreID  int
	SortBy   string
	MinVotes int
}

// TMDBClient reads catalog pages from TMDB.
type TMDBClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *breaker[*Page]
}

// NewTMDBClient creates a TMDB client.
func NewTMDBClient(cfg *config.TMDBConfig) *TMDBClient {
	return &TMDBClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker[*Page]("tmdb-api", cfg.Breaker, nil),
	}
}

// Discover returns one discover page for mediaType.
func (c *TMDBClient) Discover(ctx context.Context, mediaType models.MediaType, q DiscoverQuery) (*Page, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	query.Set("sort_by", sortBy)
	if q.GenreID > 0 {
		query.Set("with_genres", strconv.Itoa(q.GenreID))
	}
	if q.MinVotes > 0 {
		query.Set("vote_count.gte", strconv.Itoa(q.MinVotes))
	}
	return c.get(ctx, "/discover/"+string(mediaType), query)
}

// Trending returns the weekly trending page for mediaType.
func (c *TMDBClient) Trending(ctx context.Context, mediaType models.MediaType) (*Page, error) {
	return c.get(ctx, "/trending/"+string(mediaType)+"/week", url.Values{})
}

func (c *TMDBClient) get(ctx context.Context, path string, query url.Values) (*Page, error) {
	if c.apiKey == "" {
		return nil, ErrNoTMDBKey
	}

	// v4 read access tokens are JWTs; v3 keys go in the query string.
	headers := map[string]string{}
	if strings.HasPrefix(c.apiKey, "eyJ") {
		headers["Authorization"] = "Bearer " + c.apiKey
	} else {
		query.Set("api_key", c.apiKey)
	}

	start := time.Now()
	page, err := c.breaker.execute(func() (*Page, error) {
		var p Page
		status, err := doJSON(ctx, c.httpClient, requestConfig{
			baseURL: c.baseURL,
			path:    path,
			query:   query,
			headers: headers,
		}, &p)
		if status == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		metrics.RecordSourceRequest(sourceTMDB, "error", time.Since(start))
		return nil, fmt.Errorf("tmdb %s: %w", path, err)
	}

	metrics.RecordSourceRequest(sourceTMDB, "ok", time.Since(start))
	return page, nil
}
