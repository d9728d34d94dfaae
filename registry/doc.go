// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry owns elections and their candidate rosters.

	reg := registry.NewRegistry(conn, db.TypeSQLite, publisher)
	e, err := reg.CreateElection(ctx, "Board Vote", start, end, adminID)
	cs, err := reg.AddCandidates(ctx, e.ID, []string{"Alice", "Bob"})

Validation failures wrap models.ErrInvalidInput or models.ErrInvalidRange;
missing elections wrap models.ErrNotFound. Check with errors.Is.

# Casting Window

An election accepts ballots in the half-open interval [StartTime, EndTime).
Status is derived from the clock on every read and never stored.

# Deletion

DeleteElection removes the election's ballots, then its candidates, then the
election itself in one transaction. On PostgreSQL the election row is locked
first, so a concurrent cast either finishes before the delete or fails its
foreign key check and reports the election as gone. A failed delete leaves
every row in place; callers retry from scratch.
*/
package registry
