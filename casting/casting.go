// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package casting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/metrics"
)

// DefaultTimeout bounds a single casting transaction
const DefaultTimeout = 5 * time.Second

// Outcome is the result of one cast attempt
type Outcome int

const (
	Committed Outcome = iota
	AlreadyVoted
	NotStarted
	Ended
	ElectionNotFound
	CandidateNotFound
	InvalidInput
	ServerError
)

func (o Outcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case AlreadyVoted:
		return "already_voted"
	case NotStarted:
		return "not_started"
	case Ended:
		return "ended"
	case ElectionNotFound:
		return "election_not_found"
	case CandidateNotFound:
		return "candidate_not_found"
	case InvalidInput:
		return "invalid_input"
	case ServerError:
		return "server_error"
	default:
		return "unknown"
	}
}

// Receipt describes how a cast attempt ended. BallotID is set only for Committed.
type Receipt struct {
	Outcome  Outcome
	BallotID string
	Reason   string
}

type Engine struct {
	db        *sql.DB
	publisher events.Publisher
	metrics   *metrics.Metrics
	timeout   time.Duration
	now       func() time.Time
}

func NewEngine(conn *sql.DB, publisher events.Publisher, m *metrics.Metrics, timeout time.Duration) *Engine {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{db: conn, publisher: publisher, metrics: m, timeout: timeout, now: time.Now}
}

// SetClock replaces the time source used for window checks
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

/*
CastBallot records one ballot for (voterID, electionID) in a single transaction.

The UNIQUE (voter_id, election_id) constraint is the only serialization point:
when several casts for the same pair race, exactly one insert succeeds and the
others come back as AlreadyVoted. That result is final and never retried.

Once started, the transaction is detached from the caller's cancellation and
runs to commit or rollback, bounded by the engine timeout.

The error is non-nil only when the outcome is ServerError.
*/
func (e *Engine) CastBallot(ctx context.Context, voterID, electionID, candidateID string) (Receipt, error) {
	started := time.Now()

	receipt, err := e.cast(ctx, voterID, electionID, candidateID)
	if err != nil {
		receipt = Receipt{Outcome: ServerError, Reason: "the ballot could not be recorded, please try again"}
		slog.Error("failed to cast ballot", "error", err, "election_id", electionID)
	}

	e.metrics.ObserveCast(receipt.Outcome.String(), time.Since(started))

	if receipt.Outcome == Committed {
		slog.Info("ballot committed", "election_id", electionID, "ballot_id", receipt.BallotID)

		ev := events.NewBallotCast(electionID, candidateID, receipt.BallotID, e.now())
		if perr := e.publisher.Publish(context.WithoutCancel(ctx), ev); perr != nil {
			slog.Warn("failed to publish ballot event", "error", perr, "election_id", electionID)
		}
	}

	return receipt, err
}

func (e *Engine) cast(ctx context.Context, voterID, electionID, candidateID string) (Receipt, error) {
	if strings.TrimSpace(voterID) == "" || strings.TrimSpace(electionID) == "" || strings.TrimSpace(candidateID) == "" {
		return Receipt{Outcome: InvalidInput, Reason: "voter, election and candidate are required"}, nil
	}

	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	tx, err := e.db.BeginTx(txCtx, nil)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var start, end time.Time
	err = tx.QueryRowContext(txCtx, `
		SELECT start_time, end_time FROM elections WHERE id = $1
	`, electionID).Scan(&start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{Outcome: ElectionNotFound, Reason: "election not found"}, nil
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to query election: %w", err)
	}

	now := e.now()
	if now.Before(start) {
		return Receipt{
			Outcome: NotStarted,
			Reason:  "voting opens " + humanize.RelTime(start, now, "ago", "from now"),
		}, nil
	}
	if !now.Before(end) {
		return Receipt{
			Outcome: Ended,
			Reason:  "voting closed " + humanize.RelTime(end, now, "ago", "from now"),
		}, nil
	}

	var onRoster bool
	err = tx.QueryRowContext(txCtx, `
		SELECT EXISTS(
			SELECT 1 FROM candidates
			WHERE id = $1 AND election_id = $2
		)
	`, candidateID, electionID).Scan(&onRoster)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	if !onRoster {
		return Receipt{Outcome: CandidateNotFound, Reason: "candidate is not on this election's ballot"}, nil
	}

	ballotID := uuid.NewString()
	_, err = tx.ExecContext(txCtx, `
		INSERT INTO ballots (id, voter_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, voterID, electionID, candidateID, now.UTC())
	if rejected, ok := classifyInsert(err); ok {
		return rejected, nil
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to insert ballot: %w", err)
	}

	err = tx.Commit()
	if rejected, ok := classifyInsert(err); ok {
		return rejected, nil
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to commit ballot: %w", err)
	}

	return Receipt{Outcome: Committed, BallotID: ballotID, Reason: "ballot recorded"}, nil
}

// classifyInsert maps constraint failures on the ballot row to their outcomes
func classifyInsert(err error) (Receipt, bool) {
	switch {
	case err == nil:
		return Receipt{}, false
	case db.IsUniqueViolation(err):
		return Receipt{Outcome: AlreadyVoted, Reason: "you have already voted in this election"}, true
	case db.IsForeignKeyViolation(err):
		// The election was deleted while we were casting
		return Receipt{Outcome: ElectionNotFound, Reason: "election not found"}, true
	default:
		return Receipt{}, false
	}
}
