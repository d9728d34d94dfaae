// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

	if err := cliparse.LoadDotEnv(".env"); err != nil { ... }
	cfg, err := cliparse.ParseFlags(os.Args[1:])

LoadDotEnv reads a .env file into the process environment when one exists.
Variables already set in the environment win.

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite path (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: HS256 secret shared with the identity service (required)
  - StreamInterval: live results refresh cadence (default: 2s)
  - CastTimeout: upper bound for one ballot transaction (default: 5s)
  - KafkaBrokers: brokers for ballot events; empty disables publishing
  - KafkaTopic: topic for ballot events (default: ballot-events)

# CLI Flags and Environment Variables

	-p                 PORT
	-d                 DATABASE_URL
	-t                 DATABASE_TYPE
	--jwt-secret       JWT_SECRET
	--stream-interval  STREAM_INTERVAL   (Go duration, e.g. 500ms)
	--cast-timeout     CAST_TIMEOUT
	--kafka-brokers    KAFKA_BROKERS     (comma separated)
	--kafka-topic      KAFKA_TOPIC

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing, if the
port or database type is invalid, or if a duration does not parse or is not
positive.
*/
package cliparse
