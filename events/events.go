// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeBallotCast      = "ballot.cast"
	TypeElectionDeleted = "election.deleted"
)

// Event is published after the store transaction that produced it commits.
// Voter ids are never included.
type Event struct {
	ID          string    `json:"event_id"`
	Type        string    `json:"event_type"`
	ElectionID  string    `json:"election_id"`
	BallotID    string    `json:"ballot_id,omitempty"`
	CandidateID string    `json:"candidate_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewBallotCast(electionID, candidateID, ballotID string, at time.Time) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        TypeBallotCast,
		ElectionID:  electionID,
		BallotID:    ballotID,
		CandidateID: candidateID,
		OccurredAt:  at.UTC(),
	}
}

func NewElectionDeleted(electionID string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       TypeElectionDeleted,
		ElectionID: electionID,
		OccurredAt: at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
