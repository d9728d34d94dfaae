// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration
	m1 := New()
	m2 := New()

	m1.ObserveCast("committed", time.Millisecond)

	if got := testutil.ToFloat64(m1.BallotsCast.WithLabelValues("committed")); got != 1 {
		t.Errorf("m1 committed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m2.BallotsCast.WithLabelValues("committed")); got != 0 {
		t.Errorf("m2 committed = %v, want 0", got)
	}
}

func TestTrackSubscriber(t *testing.T) {
	m := New()

	done1 := m.TrackSubscriber("sse")
	done2 := m.TrackSubscriber("sse")
	if got := testutil.ToFloat64(m.StreamSubscribers.WithLabelValues("sse")); got != 2 {
		t.Errorf("subscribers = %v, want 2", got)
	}

	done1()
	done2()
	if got := testutil.ToFloat64(m.StreamSubscribers.WithLabelValues("sse")); got != 0 {
		t.Errorf("subscribers = %v, want 0", got)
	}
}

func TestObserveEvent(t *testing.T) {
	m := New()
	m.ObserveEvent("ballot.cast", nil)
	m.ObserveEvent("ballot.cast", errors.New("broker down"))

	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues("ballot.cast", "ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.EventsPublished.WithLabelValues("ballot.cast", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// None of these may panic
	m.ObserveCast("committed", time.Millisecond)
	m.ObserveTally(time.Millisecond)
	m.ObserveEvent("ballot.cast", nil)
	m.TrackSubscriber("ws")()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 from nil metrics handler, got %d", w.Code)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveCast("already_voted", 2*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `quickly_vote_ballots_total{outcome="already_voted"} 1`) {
		t.Errorf("Exposition missing ballot counter:\n%s", w.Body.String())
	}
}
