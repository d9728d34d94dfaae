// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
)

type Engine struct {
	db      *sql.DB
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewEngine(conn *sql.DB, m *metrics.Metrics) *Engine {
	return &Engine{db: conn, metrics: m, now: time.Now}
}

// ComputeTally counts ballots per candidate in a single statement, so every
// count in the snapshot comes from the same view of the ballot table.
// Candidates without ballots are included with zero votes.
func (e *Engine) ComputeTally(ctx context.Context, electionID string) (models.TallySnapshot, error) {
	started := time.Now()
	defer func() { e.metrics.ObserveTally(time.Since(started)) }()

	rows, err := e.db.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(b.id) AS votes
		FROM candidates c
		LEFT JOIN ballots b ON b.candidate_id = c.id AND b.election_id = c.election_id
		WHERE c.election_id = $1
		GROUP BY c.id, c.name, c.position
		ORDER BY votes DESC, c.position ASC, c.id ASC
	`, electionID)
	if err != nil {
		return models.TallySnapshot{}, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	snap := models.TallySnapshot{
		ElectionID: electionID,
		Results:    []models.TallyEntry{},
	}
	for rows.Next() {
		var entry models.TallyEntry
		if err := rows.Scan(&entry.CandidateID, &entry.Name, &entry.Votes); err != nil {
			return models.TallySnapshot{}, fmt.Errorf("failed to scan tally row: %w", err)
		}
		snap.TotalVotes += entry.Votes
		snap.Results = append(snap.Results, entry)
	}
	if err := rows.Err(); err != nil {
		return models.TallySnapshot{}, fmt.Errorf("failed to read tally: %w", err)
	}
	rows.Close()

	// No roster rows: either an empty roster or no election at all
	if len(snap.Results) == 0 {
		var id string
		err := e.db.QueryRowContext(ctx, `SELECT id FROM elections WHERE id = $1`, electionID).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return models.TallySnapshot{}, fmt.Errorf("election %s: %w", electionID, models.ErrNotFound)
		}
		if err != nil {
			return models.TallySnapshot{}, fmt.Errorf("failed to query election: %w", err)
		}
	}

	snap.ComputedAt = e.now().UTC()
	return snap, nil
}
