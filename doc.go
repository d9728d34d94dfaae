// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs single-choice elections: administrators define an election
window and a roster of candidates, each voter casts at most one ballot per
election, and anyone signed in can watch the tally update live.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=quickly-vote.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (--jwt-secret): secret shared with the identity service

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - STREAM_INTERVAL, CAST_TIMEOUT: live results cadence and ballot timeout
  - KAFKA_BROKERS, KAFKA_TOPIC: publish ballot events to Kafka

# Architecture

  - registry: elections and candidates
  - casting: the one-ballot-per-voter transaction
  - tally: vote counts per candidate
  - broadcast: periodic tally push to live subscribers
  - events: domain events to Kafka
  - handlers, router, middleware: HTTP surface
  - auth: identity token verification
  - db: connection, schema and constraint classification
  - metrics: Prometheus instrumentation
  - cliparse: configuration parsing

On SIGINT or SIGTERM the server stops accepting connections, drains
in-flight requests, flushes pending events and closes the store.

See package documentation for each component.
*/
package main
