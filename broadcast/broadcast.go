// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-vote/models"
)

// DefaultInterval is the cadence between snapshots on a live stream
const DefaultInterval = 2 * time.Second

// Tallier computes a fresh snapshot for an election
type Tallier interface {
	ComputeTally(ctx context.Context, electionID string) (models.TallySnapshot, error)
}

// Sink delivers one snapshot to a subscriber
type Sink interface {
	Send(ctx context.Context, snap models.TallySnapshot) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(ctx context.Context, snap models.TallySnapshot) error

func (f SinkFunc) Send(ctx context.Context, snap models.TallySnapshot) error {
	return f(ctx, snap)
}

type Broadcaster struct {
	tallier  Tallier
	interval time.Duration
}

func NewBroadcaster(tallier Tallier, interval time.Duration) *Broadcaster {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Broadcaster{tallier: tallier, interval: interval}
}

func (b *Broadcaster) Interval() time.Duration {
	return b.interval
}

/*
Subscribe streams tally snapshots for one election into sink.

The first snapshot is computed and delivered immediately; if that computation
fails the error is returned before anything reaches the sink. After that a new
snapshot is pushed every interval. A failed recompute is logged and the tick is
skipped.

Subscribe blocks until ctx is cancelled (returns nil) or the sink fails
(returns the delivery error). Each call runs its own loop; nothing is shared
between subscribers.
*/
func (b *Broadcaster) Subscribe(ctx context.Context, electionID string, sink Sink) error {
	snap, err := b.tallier.ComputeTally(ctx, electionID)
	if err != nil {
		return err
	}
	if err := sink.Send(ctx, snap); err != nil {
		return fmt.Errorf("failed to deliver snapshot: %w", err)
	}

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		snap, err := b.tallier.ComputeTally(ctx, electionID)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Warn("failed to recompute tally", "error", err, "election_id", electionID)
			continue
		}

		if err := sink.Send(ctx, snap); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to deliver snapshot: %w", err)
		}
	}
}
