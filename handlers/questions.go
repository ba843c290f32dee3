// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/store"
)

type QuestionHandler struct {
	questions store.QuestionStore
}

func NewQuestionHandler(db *sql.DB) *QuestionHandler {
	return &QuestionHandler{questions: store.New(db).Queries()}
}

// ListQuestions handles GET /questions?device_id=
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	var deviceID *int64
	if raw := r.URL.Query().Get("device_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "device_id must be an integer")
			return
		}
		deviceID = &id
	}

	questions, err := h.questions.ListQuestions(r.Context(), deviceID)
	if err != nil {
		slog.Error("failed to list questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(questions) == 0 {
		middleware.JSONResponse(w, http.StatusNotFound, models.MessageResponse{Message: "No questions found"})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, questions)
}
