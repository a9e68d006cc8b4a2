// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package models defines data structures for the Syllabus rating engine.

This package contains the records that flow through the enrichment pipeline
and the typed bundles returned by each external rating source. Every external
response is mapped into one of these structs at the client boundary so the
rest of the pipeline never handles loosely structured JSON.

Key Components:

  - CatalogItem: a movie or TV entry from the primary content source (TMDB)
  - SlimCatalogItem: reduced projection stored in the chart cache
  - ExternalRatings: the OMDb rating bundle (IMDb, Rotten Tomatoes, Metacritic)
  - AnimeRating: the MyAnimeList score returned by Jikan
  - EnrichmentProgress: ephemeral progress events emitted during enrichment
  - APIResponse: standardized HTTP response envelope

Enrichment only ever writes CatalogItem.UnifiedRating; every other field is
owned by the content source and treated as read-only.
*/
package models
