// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateElectionRequest: title, starts_at, ends_at (RFC 3339)
  - AddCandidatesRequest: candidates (ordered names)
  - CastBallotRequest: election_id, candidate_id

# Response Types

Types for JSON responses:

  - CreateElectionResponse: election_id
  - AddCandidatesResponse: election_id, candidates
  - ListCandidatesResponse: election_id, candidates
  - CastBallotResponse: outcome, ballot_id, message
  - ErrorResponse: error, message

# Domain Types

  - Election: title and casting window [start_time, end_time)
  - ElectionSummary: election plus per-voter has_voted and derived status
  - Candidate: roster entry with insertion position
  - Ballot: one committed choice per voter per election
  - TallySnapshot: per-candidate vote counts, computed on demand

# Errors

Sentinel errors shared by the registry and tally packages:

	ErrInvalidInput  // malformed request
	ErrInvalidRange  // start_time >= end_time
	ErrNotFound      // election or candidate absent

Callers test with errors.Is; wrapped store failures are anything else.

# Constants

Roles (from the identity token):

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

Election status:

	StatusUpcoming = "upcoming"
	StatusOpen     = "open"
	StatusEnded    = "ended"
*/
package models
