// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package casting records ballots.

	engine := casting.NewEngine(conn, publisher, metrics, 5*time.Second)
	receipt, err := engine.CastBallot(ctx, voterID, electionID, candidateID)

Every attempt ends in exactly one Outcome:

	Committed          the ballot is durable; Receipt.BallotID is set
	AlreadyVoted       the voter already has a ballot in this election
	NotStarted, Ended  the attempt fell outside [start, end)
	ElectionNotFound   no such election (or it was deleted mid-cast)
	CandidateNotFound  the candidate is not on this election's roster
	InvalidInput       a required id was blank
	ServerError        the store failed; err is non-nil

Only ServerError is an error. The rest are ordinary results with a readable
Receipt.Reason.

# Concurrency

There are no in-process locks. The ballots table's UNIQUE (voter_id,
election_id) constraint decides races: of any number of concurrent casts for
one voter and election, exactly one commits and the rest see AlreadyVoted.
Conflicts are never retried.
*/
package casting
