// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package services adapts long-running components to suture.Service.

Each wrapper implements Serve(ctx) error and String() so suture can name it
in event logs:

	HTTPServerService    *http.Server, graceful Shutdown on ctx end
	WebSocketHubService  *websocket.Hub
	SeedRefreshService   *seed.Loader, LoadOnce then Refresh on a ticker
	KeyResetService      *sources.KeyPool, Reset at each UTC midnight

Wrappers depend on small interfaces rather than the concrete types, so
tests can drive them with fakes.

Returning ctx.Err() signals a clean stop. Any other error makes suture
restart the service with backoff.
*/
package services
