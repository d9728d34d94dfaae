// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/danielhkuo/quickly-vote/broadcast"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/tally"
)

// writeTimeout bounds a single push to a live subscriber
const writeTimeout = 5 * time.Second

type ResultsHandler struct {
	tally       *tally.Engine
	broadcaster *broadcast.Broadcaster
	metrics     *metrics.Metrics
}

func NewResultsHandler(engine *tally.Engine, b *broadcast.Broadcaster, m *metrics.Metrics) *ResultsHandler {
	return &ResultsHandler{tally: engine, broadcaster: b, metrics: m}
}

// GetResults handles GET /elections/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	snap, err := h.tally.ComputeTally(r.Context(), electionID)
	if err != nil {
		writeTallyError(w, err, electionID)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, snap)
}

// StreamResults handles GET /elections/{id}/results/stream as Server-Sent Events.
// Each snapshot is one "data:" frame; the stream ends when the client disconnects.
func (h *ResultsHandler) StreamResults(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	done := h.metrics.TrackSubscriber("sse")
	defer done()

	sink := &sseSink{w: w, flusher: flusher}
	err := h.broadcaster.Subscribe(r.Context(), electionID, sink)
	if err != nil && !sink.started {
		writeTallyError(w, err, electionID)
		return
	}
	if err != nil {
		slog.Warn("results stream ended", "error", err, "election_id", electionID)
	}
}

type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

func (s *sseSink) Send(_ context.Context, snap models.TallySnapshot) error {
	// Headers go out with the first snapshot so a failed first tally can still answer 404
	if !s.started {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", body); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// StreamResultsWS handles GET /elections/{id}/results/ws.
// Each snapshot is one JSON text message; a peer close ends the stream.
func (h *ResultsHandler) StreamResultsWS(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return
	}

	done := h.metrics.TrackSubscriber("websocket")
	defer done()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sink := &wsSink{w: w, r: r, cancel: cancel}
	err := h.broadcaster.Subscribe(ctx, electionID, sink)
	if sink.conn == nil {
		// A failed Accept has already answered the request
		if err != nil && !sink.upgrading {
			writeTallyError(w, err, electionID)
		}
		return
	}

	if err != nil {
		slog.Warn("results socket ended", "error", err, "election_id", electionID)
		sink.conn.Close(websocket.StatusInternalError, "stream failed")
		return
	}
	sink.conn.Close(websocket.StatusNormalClosure, "")
}

type wsSink struct {
	w      http.ResponseWriter
	r      *http.Request
	cancel context.CancelFunc
	conn   *websocket.Conn

	upgrading bool
}

func (s *wsSink) Send(ctx context.Context, snap models.TallySnapshot) error {
	// Upgrade on the first snapshot so a failed first tally can still answer 404
	if s.conn == nil {
		s.upgrading = true
		conn, err := websocket.Accept(s.w, s.r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return fmt.Errorf("failed to accept websocket: %w", err)
		}
		s.conn = conn

		// We never expect messages from the client; a read failure means it left
		closed := conn.CloseRead(ctx)
		go func() {
			<-closed.Done()
			s.cancel()
		}()
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, s.conn, snap)
}

func writeTallyError(w http.ResponseWriter, err error, electionID string) {
	if errors.Is(err, models.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	slog.Error("failed to compute tally", "error", err, "election_id", electionID)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
}
