// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/testutil"
)

func TestPing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	w := httptest.NewRecorder()
	NewHealthHandler(db).Ping(w, httptest.NewRequest("GET", "/ping", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "pong" {
		t.Errorf("Expected body 'pong', got '%s'", w.Body.String())
	}
}

func TestCheckDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewHealthHandler(db)

	w := httptest.NewRecorder()
	handler.CheckDB(w, httptest.NewRequest("GET", "/api/check-db", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	var ok models.StatusResponse
	testutil.AssertJSON(t, w, &ok)
	if !ok.Success {
		t.Errorf("Expected success, got %+v", ok)
	}

	db.Close()

	w = httptest.NewRecorder()
	handler.CheckDB(w, httptest.NewRequest("GET", "/api/check-db", nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	var failed models.StatusResponse
	testutil.AssertJSON(t, w, &failed)
	if failed.Success {
		t.Error("Expected success=false after close")
	}
}
