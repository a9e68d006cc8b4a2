// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package models

import (
	"fmt"
	"unicode/utf8"
)

// MediaType identifies the catalog a CatalogItem belongs to.
type MediaType string

const (
	// MediaTypeMovie is the TMDB movie catalog.
	MediaTypeMovie MediaType = "movie"

	// MediaTypeTV is the TMDB television catalog.
	MediaTypeTV MediaType = "tv"
)

// Valid reports whether m is a supported media type.
func (m MediaType) Valid() bool {
	return m == MediaTypeMovie || m == MediaTypeTV
}

// GenreAnimation is the TMDB genre id for animation (shared by movie and tv).
const GenreAnimation = 16

// SlimOverviewLength bounds the overview stored in chart snapshots.
const SlimOverviewLength = 200

// CatalogItem is a single entry returned by the primary content source.
//
// Movies use Title and ReleaseDate, TV shows use Name and FirstAirDate.
// UnifiedRating is the only field written by the enrichment pipeline.
type CatalogItem struct {
	ID               int      `json:"id" validate:"required,gt=0"`
	Title            string   `json:"title,omitempty"`
	Name             string   `json:"name,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	BackdropPath     string   `json:"backdrop_path,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	Popularity       float64  `json:"popularity,omitempty"`
	UnifiedRating    *float64 `json:"unified_rating"`
}

// DisplayTitle returns Title for movies and Name for TV shows.
func (c *CatalogItem) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// Year returns the four digit release year, or "" when unknown.
func (c *CatalogItem) Year() string {
	date := c.ReleaseDate
	if date == "" {
		date = c.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

// HasGenre reports whether the item is tagged with the given genre id.
func (c *CatalogItem) HasGenre(id int) bool {
	for _, g := range c.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// ScoreKey returns the score store key for an item id.
func ScoreKey(mediaType MediaType, id int) string {
	return fmt.Sprintf("%s:%d", mediaType, id)
}

// SlimCatalogItem is the projection persisted in chart snapshots.
// Large fields are dropped and the overview is truncated to bound storage.
type SlimCatalogItem struct {
	ID               int      `json:"id"`
	Title            string   `json:"title,omitempty"`
	Name             string   `json:"name,omitempty"`
	PosterPath       string   `json:"poster_path,omitempty"`
	ReleaseDate      string   `json:"release_date,omitempty"`
	FirstAirDate     string   `json:"first_air_date,omitempty"`
	VoteAverage      float64  `json:"vote_average"`
	GenreIDs         []int    `json:"genre_ids,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	Overview         string   `json:"overview,omitempty"`
	UnifiedRating    *float64 `json:"unified_rating"`
}

// Slim projects a CatalogItem into a SlimCatalogItem.
func (c *CatalogItem) Slim() SlimCatalogItem {
	genres := make([]int, len(c.GenreIDs))
	copy(genres, c.GenreIDs)

	return SlimCatalogItem{
		ID:               c.ID,
		Title:            c.Title,
		Name:             c.Name,
		PosterPath:       c.PosterPath,
		ReleaseDate:      c.ReleaseDate,
		FirstAirDate:     c.FirstAirDate,
		VoteAverage:      c.VoteAverage,
		GenreIDs:         genres,
		OriginalLanguage: c.OriginalLanguage,
		Overview:         truncateRunes(c.Overview, SlimOverviewLength),
		UnifiedRating:    c.UnifiedRating,
	}
}

// SlimAll projects every item of a list.
func SlimAll(items []CatalogItem) []SlimCatalogItem {
	out := make([]SlimCatalogItem, len(items))
	for i := range items {
		out[i] = items[i].Slim()
	}
	return out
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
