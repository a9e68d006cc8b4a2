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
	"sync/atomic"
	"time"

	"github.com/kunw4r/syllabus/internal/config"
	"github.com/kunw4r/syllabus/internal/logging"
	"github.com/kunw4r/syllabus/internal/metrics"
	"github.com/kunw4r/syllabus/internal/models"
)

const sourceOMDb = "omdb"

var (
	// errKeySpent means the current key cannot serve more requests.
	errKeySpent = errors.New("omdb: api key spent")

	// errNoData means OMDb does not know the title.
	errNoData = errors.New("omdb: title not found")
)

// omdbRating is one entry of the OMDb Ratings array.
type omdbRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// omdbResponse is the subset of the OMDb title response we use.
type omdbResponse struct {
	Response   string       `json:"Response"`
	Error      string       `json:"Error"`
	IMDbID     string       `json:"imdbID"`
	IMDbRating string       `json:"imdbRating"`
	IMDbVotes  string       `json:"imdbVotes"`
	Metascore  string       `json:"Metascore"`
	Ratings    []omdbRating `json:"Ratings"`
	Director   string       `json:"Director"`
	Writer     string       `json:"Writer"`
	Awards     string       `json:"Awards"`
	BoxOffice  string       `json:"BoxOffice"`
	Rated      string       `json:"Rated"`
	Country    string       `json:"Country"`
}

// OMDbClient looks up external ratings by title and year.
type OMDbClient struct {
	baseURL    string
	httpClient *http.Client
	keys       *KeyPool
	limiter    limiter
	breaker    *breaker[*models.ExternalRatings]
	calls      atomic.Int64
}

// NewOMDbClient creates an OMDb client with its own key pool.
func NewOMDbClient(cfg *config.OMDbConfig) *OMDbClient {
	return &OMDbClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		keys:       NewKeyPool(cfg.APIKeys),
		limiter:    newLimiter(cfg.RequestsPerSecond, cfg.Burst),
		breaker: newBreaker[*models.ExternalRatings]("omdb-api", cfg.Breaker, func(err error) bool {
			return err == nil || errors.Is(err, errKeySpent) || errors.Is(err, errNoData) ||
				errors.Is(err, context.Canceled)
		}),
	}
}

// Keys returns the client's key pool.
func (c *OMDbClient) Keys() *KeyPool {
	return c.keys
}

// Calls returns the number of HTTP requests sent to OMDb.
func (c *OMDbClient) Calls() int64 {
	return c.calls.Load()
}

// Lookup returns ratings for a title. Unknown titles return (nil, nil).
// When every key has been exhausted it returns ErrRateLimited.
func (c *OMDbClient) Lookup(ctx context.Context, title, year string, mediaType models.MediaType) (*models.ExternalRatings, error) {
	query := url.Values{}
	query.Set("t", title)
	if year != "" {
		query.Set("y", year)
	}
	query.Set("type", omdbType(mediaType))

	for {
		key, ok := c.keys.Current()
		if !ok {
			metrics.SourceRequests.WithLabelValues(sourceOMDb, "rate_limited").Inc()
			return nil, ErrRateLimited
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		start := time.Now()
		ratings, err := c.breaker.execute(func() (*models.ExternalRatings, error) {
			return c.fetch(ctx, key, query)
		})

		switch {
		case errors.Is(err, errKeySpent):
			metrics.RecordSourceRequest(sourceOMDb, "rate_limited", time.Since(start))
			remaining := c.keys.MarkExhausted(key)
			logging.Warn().
				Int("keys_available", c.keys.Available()).
				Bool("rotated", remaining).
				Msg("OMDb key exhausted")
			continue
		case errors.Is(err, errNoData):
			metrics.RecordSourceRequest(sourceOMDb, "not_found", time.Since(start))
			return nil, nil
		case err != nil:
			metrics.RecordSourceRequest(sourceOMDb, "error", time.Since(start))
			return nil, fmt.Errorf("omdb lookup %q: %w", title, err)
		}

		metrics.RecordSourceRequest(sourceOMDb, "ok", time.Since(start))
		return ratings, nil
	}
}

func (c *OMDbClient) fetch(ctx context.Context, key string, query url.Values) (*models.ExternalRatings, error) {
	q := make(url.Values, len(query)+1)
	for k, v := range query {
		q[k] = v
	}
	q.Set("apikey", key)

	var resp omdbResponse
	_, err := doJSON(ctx, c.httpClient, requestConfig{
		baseURL:      c.baseURL,
		path:         "/",
		query:        q,
		decodeErrors: true,
	}, &resp)
	c.calls.Add(1)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(resp.Response, "True") {
		return nil, classifyOMDbError(resp.Error)
	}
	return resp.toRatings(), nil
}

// classifyOMDbError maps an OMDb error message to a sentinel.
// Invalid keys are treated like spent keys so the pool moves past them.
func classifyOMDbError(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "limit"), strings.Contains(lower, "invalid api key"):
		return fmt.Errorf("%w: %s", errKeySpent, msg)
	case strings.Contains(lower, "not found"):
		return errNoData
	default:
		return fmt.Errorf("omdb error: %s", msg)
	}
}

func (r *omdbResponse) toRatings() *models.ExternalRatings {
	out := &models.ExternalRatings{
		IMDbID:     na(r.IMDbID),
		IMDbRating: parseFloat(r.IMDbRating),
		IMDbVotes:  parseInt(strings.ReplaceAll(r.IMDbVotes, ",", "")),
		Metacritic: parseInt(r.Metascore),
		Director:   na(r.Director),
		Writer:     na(r.Writer),
		Awards:     na(r.Awards),
		BoxOffice:  na(r.BoxOffice),
		Rated:      na(r.Rated),
		Country:    na(r.Country),
	}

	for _, rating := range r.Ratings {
		switch rating.Source {
		case "Rotten Tomatoes":
			out.RottenTomatoes = parseInt(strings.TrimSuffix(rating.Value, "%"))
		case "Metacritic":
			if out.Metacritic == 0 {
				out.Metacritic = parseInt(strings.TrimSuffix(rating.Value, "/100"))
			}
		case "Internet Movie Database":
			if out.IMDbRating == 0 {
				out.IMDbRating = parseFloat(strings.TrimSuffix(rating.Value, "/10"))
			}
		}
	}
	return out
}

func omdbType(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeTV {
		return "series"
	}
	return "movie"
}

// na maps OMDb's "N/A" placeholder to "".
func na(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
