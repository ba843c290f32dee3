// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/testutil"
)

func TestPingEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "pong" {
		t.Errorf("Expected body 'pong', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "fabval API v1" {
		t.Errorf("Unexpected root body '%s'", w.Body.String())
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nowhere", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	// 400 and 404 are valid handler answers; 405 means no route
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/ping"},
		{"GET", "/api/check-db"},
		{"POST", "/data"},
		{"GET", "/questions"},
		{"POST", "/responses"},
		{"GET", "/responses"},
		{"POST", "/validations"},
		{"POST", "/validations/1/complete"},
		{"GET", "/validations"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	mux := NewRouter(db, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/ping"},
		{"GET", "/data"},
		{"DELETE", "/questions"},
		{"GET", "/validations/1/complete"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestSyncThenAnswerThroughRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	pump := testutil.CreateTestDevice(t, db, "P_PUMP")
	block := testutil.CreateTestQuestionBlock(t, db, "Electrical", pump)
	questionID := testutil.CreateTestQuestion(t, db, block, "Insulation above 1 MOhm?", "yes", &pump)

	redmine := testutil.NewFakeRedmine(t,
		testutil.Issue(1, "Plant A", "P_PUMP", "Unit 7"),
	)

	mux := NewRouter(db, testutil.GetTestConfig())

	// Sync
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/data", models.SyncRequest{
		URL: redmine.URL, User: "alice", Pass: "pw",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var synced models.SyncResponse
	testutil.AssertJSON(t, w, &synced)
	if len(synced.Trackers) != 1 || len(synced.Trackers[0].Subjects) != 1 {
		t.Fatalf("Unexpected sync result: %+v", synced)
	}

	// The pending response seeded by the sync is listed
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/responses", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var pending []models.Response
	testutil.AssertJSON(t, w, &pending)
	if len(pending) != 1 || pending[0].Status != models.StatusPending {
		t.Fatalf("Expected one pending response, got %+v", pending)
	}

	// Answer it in place
	text, status := "1.8 MOhm", "answered"
	sub := synced.Trackers[0].Subjects[0].SubtrackerID
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/responses", models.SubmitResponseRequest{
		QuestionID:   questionID,
		SubtrackerID: &sub,
		DeviceID:     &pump,
		ProjectID:    pending[0].ProjectID,
		WorkerID:     pending[0].WorkerID,
		ResponseText: &text,
		Status:       &status,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, db, "responses"); n != 1 {
		t.Errorf("Expected answer to update the seeded row, found %d rows", n)
	}

	// Questions for the device
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", fmt.Sprintf("/questions?device_id=%d", pump), nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
