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
	"time"

	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

const sourceJikan = "jikan"

type jikanSearchResponse struct {
	Data []struct {
		URL      string   `json:"url"`
		Score    *float64 `json:"score"`
		ScoredBy int      `json:"scored_by"`
	} `json:"data"`
}

// JikanClient queries the Jikan mirror of MyAnimeList.
type JikanClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    limiter
	breaker    *breaker[*models.AnimeRating]
}

// NewJikanClient creates a Jikan client.
func NewJikanClient(cfg *config.JikanConfig) *JikanClient {
	return &JikanClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    newLimiter(cfg.RequestsPerSecond, cfg.Burst),
		breaker: newBreaker[*models.AnimeRating]("jikan-api", cfg.Breaker, func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		}),
	}
}

// LookupAnime returns the MyAnimeList score of the best match for title.
// No match, or a match without a score, returns (nil, nil).
// A 429 from Jikan is reported as ErrRateLimited.
func (c *JikanClient) LookupAnime(ctx context.Context, title string) (*models.AnimeRating, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("q", title)
	query.Set("limit", "1")

	start := time.Now()
	result, err := c.breaker.execute(func() (*models.AnimeRating, error) {
		var resp jikanSearchResponse
		status, err := doJSON(ctx, c.httpClient, requestConfig{
			baseURL: c.baseURL,
			path:    "/anime",
			query:   query,
		}, &resp)
		if status == http.StatusTooManyRequests {
			return nil, ErrRateLimited
		}
		if err != nil {
			return nil, err
		}
		if len(resp.Data) == 0 || resp.Data[0].Score == nil || *resp.Data[0].Score <= 0 {
			return nil, nil
		}
		first := resp.Data[0]
		return &models.AnimeRating{Score: *first.Score, ScoredBy: first.ScoredBy, URL: first.URL}, nil
	})

	switch {
	case errors.Is(err, ErrRateLimited):
		metrics.RecordSourceRequest(sourceJikan, "rate_limited", time.Since(start))
		return nil, ErrRateLimited
	case err != nil:
		metrics.RecordSourceRequest(sourceJikan, "error", time.Since(start))
		return nil, fmt.Errorf("jikan lookup %q: %w", title, err)
	case result == nil:
		metrics.RecordSourceRequest(sourceJikan, "not_found", time.Since(start))
	default:
		metrics.RecordSourceRequest(sourceJikan, "ok", time.Since(start))
	}
	return result, nil
}
