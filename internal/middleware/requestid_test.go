// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kunw4r/syllabus/internal/logging"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"propagated", "upstream-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var seenID, seenCorrelation string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenID = GetRequestID(r)
				seenCorrelation = logging.CorrelationIDFromContext(r.Context())
				if logging.RequestIDFromContext(r.Context()) != seenID {
					t.Error("logging context and chi disagree on the request id")
				}
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if seenID == "" {
				t.Fatal("request id not set")
			}
			if tt.incoming != "" && seenID != tt.incoming {
				t.Errorf("request id = %q, want %q", seenID, tt.incoming)
			}
			if got := rec.Header().Get(RequestIDHeader); got != seenID {
				t.Errorf("response header = %q, want %q", got, seenID)
			}
			if len(seenCorrelation) != 8 {
				t.Errorf("correlation id = %q, want 8 chars", seenCorrelation)
			}
		})
	}
}
