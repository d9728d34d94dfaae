// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/events"
)

// TestSecret signs identity tokens in tests
const TestSecret = "test-jwt-secret"

// DBType returns the store tests run against.
// Set TEST_DATABASE_URL to run against PostgreSQL instead of in-memory SQLite.
func DBType() string {
	if os.Getenv("TEST_DATABASE_URL") != "" {
		return db.TypePostgres
	}
	return db.TypeSQLite
}

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		url = ":memory:"
	}

	conn, err := db.Open(DBType(), url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Clean up tables before each test
	if err := db.DropSchema(conn); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    ":memory:",
		DatabaseType:   DBType(),
		JWTSecret:      TestSecret,
		StreamInterval: 20 * time.Millisecond,
		CastTimeout:    5 * time.Second,
		KafkaTopic:     "ballot-events",
	}
}

// CreateTestElection inserts an election directly and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, title string, start, end time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO elections (id, title, start_time, end_time, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, title, start.UTC(), end.UTC(), "test-admin", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return id
}

// CreateOpenElection inserts an election whose window contains the current time
func CreateOpenElection(t *testing.T, conn *sql.DB) string {
	t.Helper()
	now := time.Now()
	return CreateTestElection(t, conn, "Open Election", now.Add(-time.Hour), now.Add(time.Hour))
}

// AddTestCandidate adds a candidate at the given roster position and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string, position int) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidates (id, election_id, name, position)
		VALUES ($1, $2, $3, $4)
	`, id, electionID, name, position)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// CastTestBallot inserts a ballot directly, bypassing window checks
func CastTestBallot(t *testing.T, conn *sql.DB, voterID, electionID, candidateID string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballots (id, voter_id, election_id, candidate_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, voterID, electionID, candidateID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return id
}

// CountRows runs a COUNT(*) query and returns the result
func CountRows(t *testing.T, conn *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}

// TestToken issues an identity token signed with TestSecret
func TestToken(t *testing.T, voterID, role string) string {
	t.Helper()

	token, err := auth.IssueToken(auth.Identity{VoterID: voterID, Role: role}, TestSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// FixedClock returns a time source that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// RecordingPublisher keeps every published event in memory
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *RecordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// BearerHeaders returns request headers carrying the given token
func BearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
