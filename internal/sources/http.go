// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// ErrRateLimited is returned when a source refuses further calls. For OMDb
// it means every configured API key is exhausted.
var ErrRateLimited = errors.New("sources: rate limited")

// maxErrorBodySize limits how much of an error response body is read.
const maxErrorBodySize = 64 * 1024 // 64KB

// StatusError is returned for unexpected HTTP status codes.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// readBodyForError reads the response body for error reporting (max 64KB).
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// requestConfig holds configuration for a JSON GET request.
type requestConfig struct {
	baseURL string
	path    string
	query   url.Values
	headers map[string]string

	// decodeErrors decodes the body even for 4xx responses; some APIs
	// report quota errors as JSON with a 401 status.
	decodeErrors bool
}

// doJSON executes a GET request and decodes the JSON response into result.
// It returns the HTTP status code alongside any error.
func doJSON(ctx context.Context, client *http.Client, cfg requestConfig, result interface{}) (int, error) {
	reqURL := strings.TrimRight(cfg.baseURL, "/") + cfg.path
	if len(cfg.query) > 0 {
		reqURL += "?" + cfg.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && !(cfg.decodeErrors && resp.StatusCode < 500) {
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if !ok {
			return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: err.Error()}
		}
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// FetchJSON GETs rawURL and decodes the JSON body into result.
// Used for unauthenticated artifacts such as the static score seed.
func FetchJSON(ctx context.Context, client *http.Client, rawURL string, result interface{}) error {
	_, err := doJSON(ctx, client, requestConfig{baseURL: rawURL}, result)
	return err
}

// limiter is the subset of *rate.Limiter used by the clients.
type limiter interface {
	Wait(ctx context.Context) error
}

// newLimiter returns a token bucket limiter; rps <= 0 disables limiting.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
