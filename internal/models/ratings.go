// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

package models

// ExternalRatings is the rating bundle returned by OMDb for one title.
//
// Zero numeric values mean "not reported". IMDbRating is on a 0-10 scale,
// RottenTomatoes is a percentage and Metacritic is a 0-100 score.
type ExternalRatings struct {
	IMDbID         string  `json:"imdb_id,omitempty"`
	IMDbRating     float64 `json:"imdb_rating,omitempty"`
	IMDbVotes      int     `json:"imdb_votes,omitempty"`
	RottenTomatoes int     `json:"rotten_tomatoes,omitempty"`
	Metacritic     int     `json:"metacritic,omitempty"`
	Director       string  `json:"director,omitempty"`
	Writer         string  `json:"writer,omitempty"`
	Awards         string  `json:"awards,omitempty"`
	BoxOffice      string  `json:"box_office,omitempty"`
	Rated          string  `json:"rated,omitempty"`
	Country        string  `json:"country,omitempty"`
}

// HasIMDb reports whether an IMDb rating was returned.
func (r *ExternalRatings) HasIMDb() bool {
	return r != nil && r.IMDbRating > 0
}

// HasRottenTomatoes reports whether a Rotten Tomatoes percentage was returned.
func (r *ExternalRatings) HasRottenTomatoes() bool {
	return r != nil && r.RottenTomatoes > 0
}

// AnimeRating is the MyAnimeList score returned by Jikan.
type AnimeRating struct {
	Score    float64 `json:"score"`
	ScoredBy int     `json:"scored_by,omitempty"`
	URL      string  `json:"url,omitempty"`
}

// HasScore reports whether MyAnimeList reported a score.
func (a *AnimeRating) HasScore() bool {
	return a != nil && a.Score > 0
}
