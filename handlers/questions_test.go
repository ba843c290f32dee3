// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/testutil"
)

func TestListQuestions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	pump := testutil.CreateTestDevice(t, db, "P_PUMP")
	valve := testutil.CreateTestDevice(t, db, "P_VALVE")
	block := testutil.CreateTestQuestionBlock(t, db, "General", pump, valve)
	testutil.CreateTestQuestion(t, db, block, "Nameplate fitted?", "yes", nil)
	pumpQuestion := testutil.CreateTestQuestion(t, db, block, "Impeller free?", "yes", &pump)

	handler := NewQuestionHandler(db)

	t.Run("all questions", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListQuestions(w, httptest.NewRequest("GET", "/questions", nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var questions []models.Question
		testutil.AssertJSON(t, w, &questions)
		if len(questions) != 2 {
			t.Errorf("Expected 2 questions, got %d", len(questions))
		}
	})

	t.Run("filtered by device", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListQuestions(w, httptest.NewRequest("GET", fmt.Sprintf("/questions?device_id=%d", pump), nil))

		testutil.AssertStatus(t, w, http.StatusOK)
		var questions []models.Question
		testutil.AssertJSON(t, w, &questions)
		if len(questions) != 1 || questions[0].ID != pumpQuestion {
			t.Fatalf("Expected only question %d, got %+v", pumpQuestion, questions)
		}
		if questions[0].DeviceID == nil || *questions[0].DeviceID != pump {
			t.Errorf("Expected device_id %d", pump)
		}
		if questions[0].BlockID != block {
			t.Errorf("Expected block_id %d, got %d", block, questions[0].BlockID)
		}
	})

	t.Run("empty result is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListQuestions(w, httptest.NewRequest("GET", fmt.Sprintf("/questions?device_id=%d", valve), nil))

		testutil.AssertStatus(t, w, http.StatusNotFound)
		var resp models.MessageResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Message != "No questions found" {
			t.Errorf("Unexpected message '%s'", resp.Message)
		}
	})

	t.Run("non-integer device id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListQuestions(w, httptest.NewRequest("GET", "/questions?device_id=pump", nil))

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestListQuestions_EmptyCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	w := httptest.NewRecorder()
	NewQuestionHandler(db).ListQuestions(w, httptest.NewRequest("GET", "/questions", nil))

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
