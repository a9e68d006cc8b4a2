// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package cache implements the three persistent cache layers used by enrichment.

# Layers

  - ScoreStore: {mediaType, id} -> unified rating. No TTL, never deleted.
  - RatingCache: lower(title)|year|mediaType -> OMDb rating bundle or an
    explicit "no data" marker. Negatives are pruned once per process.
  - ChartCache: {mediaType, scope} -> slim ranked list with a timestamp.
    24 hour TTL and a schema version that wipes the whole document.

Each layer owns one kvstore namespace and memoizes the decoded document after
its first read. The memo is authoritative for the rest of the process; the
store is written through on every mutation.

# Failure Model

Storage errors never reach callers. A failed load behaves like an empty
store and a failed save leaves the in-memory state intact. Both are logged at
warn level and counted in cache_persist_errors_total.

# Thread Safety

Every layer guards its memo with a mutex held across the whole
read-modify-write sequence, including the write-through.
*/
package cache
