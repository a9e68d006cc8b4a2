// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package supervisor builds the suture supervision tree for the server.

	syllabus (root)
	├── data-layer
	│   ├── seed-refresh
	│   └── omdb-key-reset
	└── api-layer
	    ├── websocket-hub
	    └── http-server

A crashing service is restarted by its layer supervisor with exponential
backoff; repeated failures in one layer do not take down the other. Events
are logged through sutureslog into the zerolog pipeline.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewSeedRefreshService(loader, cfg.Seed.RefreshInterval))
	tree.AddAPIService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
