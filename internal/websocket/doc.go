// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

/*
Package websocket pushes enrichment progress to browsers.

It uses gorilla/websocket with a hub-client architecture:

  - Hub: owns the client set and fans messages out in client ID order
  - Client: one connection with a readPump and a writePump goroutine
  - Message: {type, session_id?, data}

Message Types:

  - enrich_progress: {completed, total, phase, media_type, percent, correlation_id}
  - chart_updated: a chart snapshot was rewritten ({key, items})
  - ping / pong: application level keepalive sent by the browser

Sessions:

A client connecting with ?session_id=abc only receives session-tagged
messages for "abc". Untagged messages reach every client, and a client
without a session receives everything.

	const ws = new WebSocket(`wss://host/api/v1/ws?session_id=${sessionId}`);
	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'enrich_progress') {
	        setProgress(msg.data.percent);
	    }
	};

Connection Lifecycle:

 1. Client connects via HTTP upgrade (internal/api)
 2. Hub registers client
 3. Client starts read/write goroutines
 4. Client disconnects, or its send buffer fills up
 5. Hub unregisters client and closes its send channel

The hub runs under the supervisor tree through RunWithContext and closes
every client when its context ends.
*/
package websocket
