// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

  - ElectionHandler: elections and candidate rosters (registry)
  - BallotHandler: ballot casting (casting)
  - ResultsHandler: tally snapshots and live streams (tally, broadcast)

Handlers expect the caller's identity to be in the request context, placed
there by middleware.RequireIdentity; role checks happen in the router.

# Ballot Outcomes

POST /vote always answers with a CastBallotResponse whose outcome is one of
the casting outcomes:

	committed                        201
	already_voted, not_started, ended 409
	election_not_found, candidate_not_found 404
	invalid_input                    400
	server_error                     500

Rejections carry a human-readable message, e.g. "voting opens 5 minutes from
now".

# Live Results

Two transports share the broadcast loop:

	GET /elections/{id}/results/stream   Server-Sent Events, "data: <json>" frames
	GET /elections/{id}/results/ws       WebSocket, one JSON text message per snapshot

The first snapshot is computed before any response bytes are written, so an
unknown election still gets a plain 404. The stream stops as soon as the
client goes away.
*/
package handlers
