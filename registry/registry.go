// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/events"
	"github.com/danielhkuo/quickly-vote/models"
)

// Registry owns election and candidate rows
type Registry struct {
	db        *sql.DB
	dbType    string
	publisher events.Publisher
	now       func() time.Time
}

func NewRegistry(conn *sql.DB, dbType string, publisher events.Publisher) *Registry {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Registry{db: conn, dbType: dbType, publisher: publisher, now: time.Now}
}

// SetClock replaces the time source used for derived election status
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}

// CreateElection validates and stores a new election with an empty roster
func (r *Registry) CreateElection(ctx context.Context, title string, start, end time.Time, creator string) (models.Election, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Election{}, fmt.Errorf("%w: title is required", models.ErrInvalidInput)
	}
	if creator == "" {
		return models.Election{}, fmt.Errorf("%w: creator is required", models.ErrInvalidInput)
	}
	if start.IsZero() || end.IsZero() {
		return models.Election{}, fmt.Errorf("%w: start and end times are required", models.ErrInvalidInput)
	}
	if !start.Before(end) {
		return models.Election{}, models.ErrInvalidRange
	}

	election := models.Election{
		ID:        uuid.NewString(),
		Title:     title,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		CreatedBy: creator,
		CreatedAt: r.now().UTC(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO elections (id, title, start_time, end_time, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, election.ID, election.Title, election.StartTime, election.EndTime, election.CreatedBy, election.CreatedAt)
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to insert election: %w", err)
	}

	slog.Info("election created", "election_id", election.ID, "creator", creator)
	return election, nil
}

func (r *Registry) GetElection(ctx context.Context, id string) (models.Election, error) {
	var e models.Election
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, start_time, end_time, created_by, created_at
		FROM elections
		WHERE id = $1
	`, id).Scan(&e.ID, &e.Title, &e.StartTime, &e.EndTime, &e.CreatedBy, &e.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, fmt.Errorf("election %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}

	normalize(&e)
	return e, nil
}

// DeleteElection removes an election together with its ballots and candidates.
// Either everything goes or nothing does; a failed delete is retried from scratch.
func (r *Registry) DeleteElection(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the election row so no cast can add a ballot behind our back
	var found string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM elections WHERE id = $1`+db.LockRowClause(r.dbType), id,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("election %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock election: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM ballots WHERE election_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ballots: %w", err)
	}
	ballots, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM candidates WHERE election_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete candidates: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("election %s: %w", id, models.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit election delete: %w", err)
	}

	slog.Info("election deleted", "election_id", id, "ballots_removed", ballots)

	if err := r.publisher.Publish(ctx, events.NewElectionDeleted(id, r.now())); err != nil {
		slog.Warn("failed to publish election deletion", "error", err, "election_id", id)
	}

	return nil
}

// AddCandidates appends names to an election's roster in the given order
func (r *Registry) AddCandidates(ctx context.Context, electionID string, names []string) ([]models.Candidate, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one candidate is required", models.ErrInvalidInput)
	}
	cleaned := make([]string, len(names))
	for i, name := range names {
		cleaned[i] = strings.TrimSpace(name)
		if cleaned[i] == "" {
			return nil, fmt.Errorf("%w: candidate %d has no name", models.ErrInvalidInput, i+1)
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Locking the election also serializes concurrent roster edits
	var found string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM elections WHERE id = $1`+db.LockRowClause(r.dbType), electionID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("election %s: %w", electionID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}

	var last int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), 0) FROM candidates WHERE election_id = $1
	`, electionID).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(cleaned))
	for i, name := range cleaned {
		c := models.Candidate{
			ID:         uuid.NewString(),
			ElectionID: electionID,
			Name:       name,
			Position:   last + i + 1,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (id, election_id, name, position)
			VALUES ($1, $2, $3, $4)
		`, c.ID, c.ElectionID, c.Name, c.Position)
		if err != nil {
			return nil, fmt.Errorf("failed to insert candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit candidates: %w", err)
	}

	slog.Info("candidates added", "election_id", electionID, "count", len(candidates))
	return candidates, nil
}

// ListElections returns every election, most recent start first, with the
// voter's has_voted flag
func (r *Registry) ListElections(ctx context.Context, voterID string) ([]models.ElectionSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.title, e.start_time, e.end_time, e.created_by, e.created_at,
		       (b.id IS NOT NULL) AS has_voted
		FROM elections e
		LEFT JOIN ballots b ON b.election_id = e.id AND b.voter_id = $1
		ORDER BY e.start_time DESC, e.id
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	now := r.now()
	summaries := []models.ElectionSummary{}
	for rows.Next() {
		var s models.ElectionSummary
		if err := rows.Scan(
			&s.ID, &s.Title, &s.StartTime, &s.EndTime, &s.CreatedBy, &s.CreatedAt,
			&s.HasVoted,
		); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		normalize(&s.Election)
		s.Status = s.StatusAt(now)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read elections: %w", err)
	}

	return summaries, nil
}

// ListCandidates returns an election's roster in insertion order
func (r *Registry) ListCandidates(ctx context.Context, electionID string) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, election_id, name, position
		FROM candidates
		WHERE election_id = $1
		ORDER BY position, id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	rows.Close()

	// An empty roster is only valid for an existing election
	if len(candidates) == 0 {
		if _, err := r.GetElection(ctx, electionID); err != nil {
			return nil, err
		}
	}

	return candidates, nil
}

func normalize(e *models.Election) {
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
}
