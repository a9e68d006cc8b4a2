// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

// Package rating combines external ratings into a single 0-10 unified score.
package rating

import (
	"math"

	"github.com/kunw4r/syllabus/internal/models"
)

// animeLanguage is the original language that, with the animation genre,
// marks a title as anime.
const animeLanguage = "ja"

// ComputeUnified averages the available external ratings into one score.
//
// Contributions:
//   - the IMDb rating, when present
//   - for anime, the MyAnimeList score as reported; otherwise the Rotten
//     Tomatoes percentage divided by ten
//
// The result is rounded to one decimal. It is nil when nothing contributed.
func ComputeUnified(ext *models.ExternalRatings, anime *models.AnimeRating, animeFlagged bool) *float64 {
	var sum float64
	var n int

	if ext.HasIMDb() {
		sum += ext.IMDbRating
		n++
	}

	if animeFlagged {
		if anime.HasScore() {
			sum += anime.Score
			n++
		}
	} else if ext.HasRottenTomatoes() {
		sum += float64(ext.RottenTomatoes) / 10
		n++
	}

	if n == 0 {
		return nil
	}

	unified := math.Round(sum/float64(n)*10) / 10
	return &unified
}

// IsAnime reports whether an item should be scored with MyAnimeList.
func IsAnime(item *models.CatalogItem) bool {
	return item.OriginalLanguage == animeLanguage && item.HasGenre(models.GenreAnimation)
}

// Best returns the score used for ranking: the unified rating, else the
// primary source vote average, else the generic rating, else 0.
func Best(item *models.CatalogItem) float64 {
	switch {
	case item.UnifiedRating != nil:
		return *item.UnifiedRating
	case item.VoteAverage != 0:
		return item.VoteAverage
	case item.Rating != nil:
		return *item.Rating
	default:
		return 0
	}
}
