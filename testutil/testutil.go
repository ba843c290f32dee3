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
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/fabval/cliparse"
	"github.com/danielhkuo/fabval/db"
	"github.com/danielhkuo/fabval/redmine"
)

// SetupTestDB opens a fresh SQLite database in a temp dir with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path := filepath.Join(t.TempDir(), "fabval.db")
	conn, err := db.Open(ctx, db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          5001,
		DatabaseURL:   "file::memory:",
		DatabaseType:  db.TypeSQLite,
		AllowedOrigin: cliparse.DefaultAllowedOrigin,
		PageSize:      redmine.DefaultPageSize,
		FetchTimeout:  5 * time.Second,
	}
}

// CreateTestDevice inserts a device and returns its id
func CreateTestDevice(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`INSERT INTO devices (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test device: %v", err)
	}
	return id
}

// CreateTestQuestionBlock inserts a block and links it to the given devices
func CreateTestQuestionBlock(t *testing.T, db *sql.DB, name string, deviceIDs ...int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`INSERT INTO question_blocks (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test question block: %v", err)
	}

	for _, deviceID := range deviceIDs {
		_, err := db.Exec(`
			INSERT INTO device_question_block (device_id, question_block_id)
			VALUES ($1, $2)
		`, deviceID, id)
		if err != nil {
			t.Fatalf("Failed to link test question block: %v", err)
		}
	}
	return id
}

// CreateTestQuestion inserts a question. A nil deviceID makes it apply to
// every device linked to the block.
func CreateTestQuestion(t *testing.T, db *sql.DB, blockID int64, text, expected string, deviceID *int64) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO questions (question_text, expected_result, question_block_id, device_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, text, expected, blockID, deviceID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// FakeRedmine serves GET /issues.json from a fixed issue list, honoring
// limit and offset.
type FakeRedmine struct {
	*httptest.Server

	mu       sync.Mutex
	issues   []redmine.Issue
	status   int
	requests int
	user     string
	pass     string
}

// NewFakeRedmine starts a fake server; it is closed when the test ends
func NewFakeRedmine(t *testing.T, issues ...redmine.Issue) *FakeRedmine {
	t.Helper()

	f := &FakeRedmine{issues: issues}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// FailWith makes every following request answer with status
func (f *FakeRedmine) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

// Requests returns how many page requests were served
func (f *FakeRedmine) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// Credentials returns the basic auth pair of the last request
func (f *FakeRedmine) Credentials() (user, pass string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user, f.pass
}

func (f *FakeRedmine) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests++
	f.user, f.pass, _ = r.BasicAuth()

	if r.URL.Path != "/issues.json" {
		http.NotFound(w, r)
		return
	}
	if f.status != 0 {
		http.Error(w, http.StatusText(f.status), f.status)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 25
	}

	page := redmine.IssuesPage{
		Issues:     []redmine.Issue{},
		TotalCount: len(f.issues),
		Offset:     offset,
		Limit:      limit,
	}
	if offset < len(f.issues) {
		end := min(offset+limit, len(f.issues))
		page.Issues = f.issues[offset:end]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(page)
}

// Issue builds a Redmine issue for fixtures
func Issue(id int64, project, tracker, subject string) redmine.Issue {
	return redmine.Issue{
		ID:      id,
		Project: redmine.IDName{ID: 1, Name: project},
		Tracker: redmine.IDName{ID: id, Name: tracker},
		Subject: subject,
	}
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
