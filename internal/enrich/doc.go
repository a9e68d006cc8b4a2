// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package enrich computes unified ratings for catalog lists.

The Orchestrator takes a list of catalog items, applies scores already in
the score store, fetches external ratings for the rest in small concurrent
batches, and returns the list sorted by best known rating.

Flow for one Enrich call:

 1. Copy the input; the caller's slice is never modified.
 2. Apply stored scores. Items without one need fetching.
 3. Process pending items in batches (3 by default) with a pause between
    batches (500ms by default). Items in a batch run concurrently; each
    external call has its own timeout.
 4. When the rating source reports ErrRateLimited, in-flight siblings are
    canceled and no further batch starts.
 5. Stable sort by rating.Best, descending.
 6. Snapshot the result into the chart cache when a chart key is given.

Progress is reported through a callback as models.EnrichmentProgress.

Cancellation is driven by the context. A canceled run returns ErrCanceled
and no list. Supersede hands out per-session contexts so that a newer
request for the same session cancels the older one.
*/
package enrich
