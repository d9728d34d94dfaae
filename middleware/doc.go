// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (duration_ms).

# Identity

RequireIdentity verifies the caller's token and stores the resulting
auth.Identity in the request context. The token comes from

	Authorization: Bearer <jwt>

or, for browser EventSource connections that cannot set headers, from the
token query parameter. Failures answer 401.

RequireAdmin must be nested inside RequireIdentity and answers 403 for
callers without the ADMIN role:

	middleware.RequireIdentity(secret, middleware.RequireAdmin(h.CreateElection))

Handlers read the caller with

	id, ok := middleware.IdentityFrom(r.Context())

# CORS Middleware

	server := http.Server{Handler: middleware.CORS(mux)}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CastBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
