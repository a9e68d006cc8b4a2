// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package sources provides HTTP clients for the external rating and content APIs.

Clients:
  - OMDbClient: per-title IMDb / Rotten Tomatoes / Metacritic ratings. Uses a
    KeyPool; a "limit" response exhausts the current key and the request is
    retried with the next one. When every key is exhausted Lookup returns
    ErrRateLimited.
  - JikanClient: MyAnimeList score for anime titles.
  - TMDBClient: discover and trending listings (the primary catalog).

Resilience:
  - Pacing: golang.org/x/time/rate limiter per client
  - Circuit breaker: sony/gobreaker per client. Limit and "not found"
    responses are answers, not failures, and never trip a breaker.
  - Context: every call accepts a context for cancellation and timeouts

A title that a source does not know is reported as (nil, nil).
*/
package sources
