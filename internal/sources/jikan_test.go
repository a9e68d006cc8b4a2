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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kunw4r/syllabus/internal/config"
)

func newTestJikan(t *testing.T, handler http.HandlerFunc) *JikanClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewJikanClient(&config.JikanConfig{
		Enabled: true,
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
}

func TestJikanClient_LookupAnime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantScore float64
		wantNil   bool
	}{
		{
			name:      "scored match",
			body:      `{"data":[{"url":"https://myanimelist.net/anime/199","score":8.77,"scored_by":1900000}]}`,
			wantScore: 8.77,
		},
		{name: "no results", body: `{"data":[]}`, wantNil: true},
		{name: "null score", body: `{"data":[{"url":"u","score":null}]}`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/anime" || r.URL.Query().Get("limit") != "1" || r.URL.Query().Get("q") != "Spirited Away" {
					t.Errorf("unexpected request %s", r.URL)
				}
				fmt.Fprint(w, tt.body)
			})

			got, err := c.LookupAnime(context.Background(), "Spirited Away")
			if err != nil {
				t.Fatalf("LookupAnime() error = %v", err)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("LookupAnime() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.Score != tt.wantScore {
				t.Errorf("LookupAnime() = %+v, want score %v", got, tt.wantScore)
			}
		})
	}
}

func TestJikanClient_TooManyRequests(t *testing.T) {
	t.Parallel()

	c := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := c.LookupAnime(context.Background(), "Akira"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("LookupAnime() error = %v, want ErrRateLimited", err)
	}
}

func TestJikanClient_BadJSON(t *testing.T) {
	t.Parallel()

	c := newTestJikan(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>")
	})

	if _, err := c.LookupAnime(context.Background(), "Akira"); err == nil {
		t.Error("LookupAnime() with bad JSON succeeded")
	}
}
