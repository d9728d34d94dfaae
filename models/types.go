package models

import (
	"errors"
	"time"
)

// Role constants, as issued by the identity service
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Election status constants (derived from the casting window)
const (
	StatusUpcoming = "upcoming"
	StatusOpen     = "open"
	StatusEnded    = "ended"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRange = errors.New("invalid election time range")
	ErrNotFound     = errors.New("not found")
)

// Request types

type CreateElectionRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type AddCandidatesRequest struct {
	Candidates []string `json:"candidates"`
}

type CastBallotRequest struct {
	ElectionID  string `json:"election_id"`
	CandidateID string `json:"candidate_id"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
}

type AddCandidatesResponse struct {
	ElectionID string      `json:"election_id"`
	Candidates []Candidate `json:"candidates"`
}

type ListCandidatesResponse struct {
	ElectionID string      `json:"election_id"`
	Candidates []Candidate `json:"candidates"`
}

type CastBallotResponse struct {
	Outcome  string `json:"outcome"`
	BallotID string `json:"ballot_id,omitempty"`
	Message  string `json:"message"`
}

// Domain types

type Election struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusAt reports where t falls relative to the half-open window [StartTime, EndTime)
func (e Election) StatusAt(t time.Time) string {
	switch {
	case t.Before(e.StartTime):
		return StatusUpcoming
	case t.Before(e.EndTime):
		return StatusOpen
	default:
		return StatusEnded
	}
}

type ElectionSummary struct {
	Election
	Status   string `json:"status"`
	HasVoted bool   `json:"has_voted"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
}

type Ballot struct {
	ID          string    `json:"id"`
	VoterID     string    `json:"-"` // Never expose in JSON
	ElectionID  string    `json:"election_id"`
	CandidateID string    `json:"candidate_id"`
	CastAt      time.Time `json:"cast_at"`
}

// Tally types

type TallyEntry struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
}

type TallySnapshot struct {
	ElectionID string       `json:"election_id"`
	ComputedAt time.Time    `json:"computed_at"`
	TotalVotes int          `json:"total_votes"`
	Results    []TallyEntry `json:"results"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
