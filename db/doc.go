// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the backing store and creates its schema.

# Connecting

Open accepts a database type and URL:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:quickly-vote.db")

SQLite handles are limited to a single connection and always run with
foreign keys enabled and a busy timeout.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - elections: title, casting window, creator
  - candidates: roster entries with insertion position
  - ballots: one row per voter per election

# Relationships

	elections 1──* candidates
	elections 1──* ballots
	candidates 1──* ballots

All foreign keys use ON DELETE CASCADE. The registry still deletes ballots
and candidates explicitly inside its delete transaction.

# Constraints

UNIQUE (voter_id, election_id) on ballots is what resolves concurrent casts
for the same voter. Driver errors are classified with:

	db.IsUniqueViolation(err)     // SQLSTATE 23505 / SQLITE_CONSTRAINT_UNIQUE
	db.IsForeignKeyViolation(err) // SQLSTATE 23503 / SQLITE_CONSTRAINT_FOREIGNKEY
*/
package db
