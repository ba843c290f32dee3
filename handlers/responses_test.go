// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/testutil"
)

type answerFixture struct {
	question, project, worker, device int64
}

func setupAnswerFixture(t *testing.T, db *sql.DB) answerFixture {
	t.Helper()

	device := testutil.CreateTestDevice(t, db, "P_PUMP")
	block := testutil.CreateTestQuestionBlock(t, db, "Electrical", device)
	question := testutil.CreateTestQuestion(t, db, block, "Insulation?", ">1 MOhm", nil)

	var project, worker int64
	if err := db.QueryRow(`INSERT INTO projects (name) VALUES ('Plant A') RETURNING id`).Scan(&project); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	if err := db.QueryRow(`INSERT INTO workers (name) VALUES ('alice') RETURNING id`).Scan(&worker); err != nil {
		t.Fatalf("Failed to create worker: %v", err)
	}
	return answerFixture{question: question, project: project, worker: worker, device: device}
}

func TestSubmitResponse_CreateThenUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	f := setupAnswerFixture(t, db)
	handler := NewResponseHandler(db)

	text := "2.1 MOhm"
	body := models.SubmitResponseRequest{
		QuestionID:   f.question,
		ProjectID:    f.project,
		DeviceID:     &f.device,
		WorkerID:     &f.worker,
		ResponseText: &text,
	}

	w := httptest.NewRecorder()
	handler.SubmitResponse(w, testutil.MakeRequest("POST", "/responses", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.SubmitResponseResponse
	testutil.AssertJSON(t, w, &created)
	if !created.Created {
		t.Error("Expected created=true")
	}
	if created.Response.Status != models.StatusPending {
		t.Errorf("Expected default status pending, got '%s'", created.Response.Status)
	}

	status, comments := "answered", "checked with megger"
	body.ResponseText = nil
	body.Status = &status
	body.Comments = &comments

	w = httptest.NewRecorder()
	handler.SubmitResponse(w, testutil.MakeRequest("POST", "/responses", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.SubmitResponseResponse
	testutil.AssertJSON(t, w, &updated)
	if updated.Created {
		t.Error("Expected created=false on resubmission")
	}
	if updated.Response.ID != created.Response.ID {
		t.Errorf("Expected same row %d, got %d", created.Response.ID, updated.Response.ID)
	}
	if updated.Response.ResponseText == nil || *updated.Response.ResponseText != text {
		t.Error("Omitted response_text should keep the stored value")
	}
	if updated.Response.Status != status {
		t.Errorf("Expected status '%s', got '%s'", status, updated.Response.Status)
	}

	empty := ""
	body.Status = nil
	body.Comments = &empty

	w = httptest.NewRecorder()
	handler.SubmitResponse(w, testutil.MakeRequest("POST", "/responses", body, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var cleared models.SubmitResponseResponse
	testutil.AssertJSON(t, w, &cleared)
	if cleared.Response.Comments != nil {
		t.Errorf("Expected empty comments to clear the column, got '%s'", *cleared.Response.Comments)
	}
	if cleared.Response.Status != status {
		t.Errorf("Expected status '%s' to be kept, got '%s'", status, cleared.Response.Status)
	}

	if n := testutil.CountRows(t, db, "responses"); n != 1 {
		t.Errorf("Expected 1 response row, got %d", n)
	}
}

func TestSubmitResponse_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResponseHandler(db)

	testCases := []struct {
		name string
		body string
	}{
		{"invalid JSON", `not json`},
		{"missing question_id", `{"project_id":1}`},
		{"missing project_id", `{"question_id":1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.SubmitResponse(w, httptest.NewRequest("POST", "/responses", strings.NewReader(tc.body)))
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestSubmitResponse_IntegrityError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	f := setupAnswerFixture(t, db)
	handler := NewResponseHandler(db)

	w := httptest.NewRecorder()
	handler.SubmitResponse(w, testutil.MakeRequest("POST", "/responses", models.SubmitResponseRequest{
		QuestionID: 4242,
		ProjectID:  f.project,
	}, nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if !strings.HasPrefix(resp.Message, "integrity error: ") {
		t.Errorf("Expected integrity error message, got '%s'", resp.Message)
	}
	if n := testutil.CountRows(t, db, "responses"); n != 0 {
		t.Errorf("Expected nothing persisted, got %d rows", n)
	}
}

func TestListResponses(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	f := setupAnswerFixture(t, db)
	handler := NewResponseHandler(db)

	w := httptest.NewRecorder()
	handler.SubmitResponse(w, testutil.MakeRequest("POST", "/responses", models.SubmitResponseRequest{
		QuestionID: f.question,
		ProjectID:  f.project,
		WorkerID:   &f.worker,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	testCases := []struct {
		name   string
		path   string
		status int
		count  int
	}{
		{"all", "/responses", http.StatusOK, 1},
		{"by project and worker", fmt.Sprintf("/responses?project_id=%d&worker_id=%d", f.project, f.worker), http.StatusOK, 1},
		{"other worker", fmt.Sprintf("/responses?worker_id=%d", f.worker+1), http.StatusOK, 0},
		{"bad project id", "/responses?project_id=abc", http.StatusBadRequest, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ListResponses(w, httptest.NewRequest("GET", tc.path, nil))
			testutil.AssertStatus(t, w, tc.status)
			if tc.count < 0 {
				return
			}

			var responses []models.Response
			testutil.AssertJSON(t, w, &responses)
			if len(responses) != tc.count {
				t.Errorf("Expected %d responses, got %d", tc.count, len(responses))
			}
		})
	}
}
