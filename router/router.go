// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-vote/broadcast"
	"github.com/danielhkuo/quickly-vote/casting"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/registry"
	"github.com/danielhkuo/quickly-vote/tally"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, publisher events.Publisher, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Core components
	reg := registry.NewRegistry(db, cfg.DatabaseType, publisher)
	caster := casting.NewEngine(db, publisher, m, cfg.CastTimeout)
	tallier := tally.NewEngine(db, m)
	broadcaster := broadcast.NewBroadcaster(tallier, cfg.StreamInterval)

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(reg)
	ballotHandler := handlers.NewBallotHandler(caster)
	resultsHandler := handlers.NewResultsHandler(tallier, broadcaster, m)

	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireIdentity(cfg.JWTSecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireAdmin(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Election management
	mux.HandleFunc("GET /elections", authed(electionHandler.ListElections))
	mux.HandleFunc("POST /elections", admin(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}", authed(electionHandler.GetElection))
	mux.HandleFunc("DELETE /elections/{id}", admin(electionHandler.DeleteElection))
	mux.HandleFunc("GET /elections/{id}/candidates", authed(electionHandler.ListCandidates))
	mux.HandleFunc("POST /elections/{id}/candidates", admin(electionHandler.AddCandidates))

	// Voting
	mux.HandleFunc("POST /vote", authed(ballotHandler.CastBallot))

	// Results
	mux.HandleFunc("GET /elections/{id}/results", authed(resultsHandler.GetResults))
	mux.HandleFunc("GET /elections/{id}/results/stream", authed(resultsHandler.StreamResults))
	mux.HandleFunc("GET /elections/{id}/results/ws", authed(resultsHandler.StreamResultsWS))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
