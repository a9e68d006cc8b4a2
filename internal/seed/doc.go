// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package seed handles the static score seed: a bulk score database produced
offline by the batch enrichment job and published as a static JSON artifact.

Document format:

	{
	  "_meta": {"generated_at": "...", "run_id": "...", "count": 1200, "calls": 900},
	  "movie": {"129": {"s": 8.6, "i": 8.6, "r": 96, "t": "Spirited Away"}},
	  "tv":    {"1399": {"s": null, "t": "Unknown Show"}}
	}

A null "s" records that the title was looked up without finding ratings, so
the batch job does not fetch it again.

The Loader merges seed scores into the score store at most once per TTL
window (12h by default). The merge is additive: scores already in the store
are never replaced.
*/
package seed
