// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package validation

import (
	"strings"
	"sync"
	"testing"
)

type testItem struct {
	ID int `json:"id" validate:"required,gt=0"`
}

type testRequest struct {
	MediaType string     `json:"media_type" validate:"required,mediatype"`
	SessionID string     `json:"session_id,omitempty" validate:"omitempty,max=64"`
	Items     []testItem `json:"items" validate:"required,min=1,max=3,dive"`
}

func TestValidateStruct_Valid(t *testing.T) {
	t.Parallel()

	req := testRequest{MediaType: "tv", Items: []testItem{{ID: 1}}}
	if err := ValidateStruct(&req); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStruct_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:      "missing media type",
			req:       testRequest{Items: []testItem{{ID: 1}}},
			wantField: "media_type",
			wantTag:   "required",
			wantMsg:   "media_type is required",
		},
		{
			name:      "unknown media type",
			req:       testRequest{MediaType: "book", Items: []testItem{{ID: 1}}},
			wantField: "media_type",
			wantTag:   "mediatype",
			wantMsg:   "media_type must be movie or tv",
		},
		{
			name:      "too many items",
			req:       testRequest{MediaType: "movie", Items: []testItem{{1}, {2}, {3}, {4}}},
			wantField: "items",
			wantTag:   "max",
			wantMsg:   "items must be at most 3 items",
		},
		{
			name:      "nested item id",
			req:       testRequest{MediaType: "movie", Items: []testItem{{ID: 5}, {ID: 0}}},
			wantField: "items[1].id",
			wantTag:   "required",
			wantMsg:   "items[1].id is required",
		},
		{
			name:      "session id too long",
			req:       testRequest{MediaType: "movie", SessionID: strings.Repeat("x", 65), Items: []testItem{{1}}},
			wantField: "session_id",
			wantTag:   "max",
			wantMsg:   "session_id must be at most 64 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateStruct(&tt.req)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(errs), err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("Tag() = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&testRequest{})
	if err == nil {
		t.Fatal("expected errors")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v, want 2 entries", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "media_type is required") || !strings.Contains(apiErr.Message, "items is required") {
		t.Errorf("Message = %q", apiErr.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}

func TestValidateVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		tag   string
		ok    bool
	}{
		{"all", "chartscope", true},
		{"16", "chartscope", true},
		{"0", "chartscope", false},
		{"drama", "chartscope", false},
		{"movie", "mediatype", true},
		{"anime", "mediatype", false},
	}

	for _, tt := range tests {
		err := ValidateVar("param", tt.value, tt.tag)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateVar(%q, %s) = %v, want ok=%v", tt.value, tt.tag, err, tt.ok)
		}
		if err != nil && err.Errors()[0].Field() != "param" {
			t.Errorf("Field() = %q, want param", err.Errors()[0].Field())
		}
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetValidator()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("GetValidator returned different instances")
		}
	}
}
