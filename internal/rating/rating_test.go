// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package rating

import (
	"testing"

	"github.com/kunw4r/syllabus/internal/models"
)

func f(v float64) *float64 { return &v }

func TestComputeUnified(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ext     *models.ExternalRatings
		anime   *models.AnimeRating
		flagged bool
		want    *float64
	}{
		{
			name: "imdb and rotten tomatoes",
			ext:  &models.ExternalRatings{IMDbRating: 8.0, RottenTomatoes: 90},
			want: f(8.5),
		},
		{
			name: "imdb only",
			ext:  &models.ExternalRatings{IMDbRating: 7.2},
			want: f(7.2),
		},
		{
			name: "rotten tomatoes only",
			ext:  &models.ExternalRatings{RottenTomatoes: 73},
			want: f(7.3),
		},
		{
			name: "nothing",
			ext:  nil,
			want: nil,
		},
		{
			name:    "anime uses mal instead of rotten tomatoes",
			ext:     &models.ExternalRatings{IMDbRating: 8.6, RottenTomatoes: 100},
			anime:   &models.AnimeRating{Score: 9.0},
			flagged: true,
			want:    f(8.8),
		},
		{
			name:    "anime without mal ignores rotten tomatoes",
			ext:     &models.ExternalRatings{IMDbRating: 8.0, RottenTomatoes: 40},
			flagged: true,
			want:    f(8.0),
		},
		{
			name:    "anime with only mal",
			anime:   &models.AnimeRating{Score: 8.77},
			flagged: true,
			want:    f(8.8),
		},
		{
			name:  "mal ignored when not flagged",
			ext:   &models.ExternalRatings{IMDbRating: 6.0},
			anime: &models.AnimeRating{Score: 9.0},
			want:  f(6.0),
		},
		{
			name: "rounds to one decimal",
			ext:  &models.ExternalRatings{IMDbRating: 7.4, RottenTomatoes: 88},
			want: f(8.1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeUnified(tt.ext, tt.anime, tt.flagged)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("ComputeUnified() = %v, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("ComputeUnified() = nil, want %v", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("ComputeUnified() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestIsAnime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item models.CatalogItem
		want bool
	}{
		{"japanese animation", models.CatalogItem{OriginalLanguage: "ja", GenreIDs: []int{16, 10765}}, true},
		{"japanese live action", models.CatalogItem{OriginalLanguage: "ja", GenreIDs: []int{18}}, false},
		{"western animation", models.CatalogItem{OriginalLanguage: "en", GenreIDs: []int{16}}, false},
	}

	for _, tt := range tests {
		if got := IsAnime(&tt.item); got != tt.want {
			t.Errorf("%s: IsAnime() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item models.CatalogItem
		want float64
	}{
		{"unified wins", models.CatalogItem{UnifiedRating: f(8.2), VoteAverage: 6, Rating: f(5)}, 8.2},
		{"vote average", models.CatalogItem{VoteAverage: 6.4, Rating: f(5)}, 6.4},
		{"generic rating", models.CatalogItem{Rating: f(5)}, 5},
		{"nothing", models.CatalogItem{}, 0},
	}

	for _, tt := range tests {
		if got := Best(&tt.item); got != tt.want {
			t.Errorf("%s: Best() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
