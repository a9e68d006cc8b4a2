// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package main is the entry point for the Syllabus server.

The server serves TMDB charts ranked by a unified rating that blends IMDb,
Rotten Tomatoes, Metacritic, TMDB and (for anime) MyAnimeList scores. Scores
come from the persistent score store first, then the static seed, and only
then from live OMDb and Jikan lookups.

# Application Architecture

	RootSupervisor ("syllabus")
	├── DataSupervisor ("data-layer")
	│   ├── Seed refresh (optional, seed.enabled + seed.url)
	│   └── OMDb key reset (UTC midnight)
	└── APISupervisor ("api-layer")
	    ├── WebSocket Hub (enrichment progress)
	    └── HTTP Server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Storage: BadgerDB, SQLite or memory key-value backend
 4. Cache layers: score store, external-rating cache, chart cache
 5. Sources: OMDb (key pool), TMDB, Jikan
 6. Enrichment orchestrator
 7. WebSocket hub and performance monitor
 8. Supervisor tree, then signal handling

# Usage

	server --config /etc/syllabus/config.yaml
	HTTP_PORT=8080 OMDB_API_KEYS=k1,k2 TMDB_API_KEY=... server

SIGINT and SIGTERM cancel the root context; the HTTP server drains within
server.shutdown_timeout and storage is closed last.
*/
package main
