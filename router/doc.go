// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter builds the core components and returns a configured
http.ServeMux:

	mux := router.NewRouter(db, cfg, publisher, metrics)

publisher and metrics may be nil; events are then dropped and
instrumentation is skipped.

# Endpoints

Public:

	GET /health   - store ping (200 OK or 503)
	GET /metrics  - Prometheus exposition

Any authenticated caller:

	GET  /elections                       - List with status and has_voted
	GET  /elections/{id}                  - Election details
	GET  /elections/{id}/candidates       - Roster
	POST /vote                            - Cast a ballot
	GET  /elections/{id}/results          - Tally snapshot
	GET  /elections/{id}/results/stream   - Live tally (SSE)
	GET  /elections/{id}/results/ws       - Live tally (WebSocket)

ADMIN only:

	POST   /elections                  - Create election
	DELETE /elections/{id}             - Delete election and its ballots
	POST   /elections/{id}/candidates  - Add candidates

Authenticated routes accept the token as "Authorization: Bearer" or the
token query parameter.
*/
package router
