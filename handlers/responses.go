// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/store"
)

type ResponseHandler struct {
	store *store.Store
}

func NewResponseHandler(db *sql.DB) *ResponseHandler {
	return &ResponseHandler{store: store.New(db)}
}

// SubmitResponse handles POST /responses
// Answers go through the same upsert used when synchronization seeds
// pending responses, so a re-sync never duplicates or clears them.
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.QuestionID == 0 || req.ProjectID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id and project_id are required")
		return
	}

	key := store.ResponseKey{
		QuestionID:   req.QuestionID,
		SubtrackerID: req.SubtrackerID,
		DeviceID:     req.DeviceID,
		ProjectID:    req.ProjectID,
		WorkerID:     req.WorkerID,
	}
	fields := store.ResponseFields{
		ResponseText: req.ResponseText,
		Status:       req.Status,
		Comments:     req.Comments,
	}

	var resp models.Response
	var created bool
	err := h.store.RunInTx(r.Context(), func(ctx context.Context, tx store.UnitOfWork) error {
		var err error
		resp, created, err = tx.UpsertResponse(ctx, key, fields)
		return err
	})

	var integrityErr *store.IntegrityError
	if errors.As(err, &integrityErr) {
		slog.Error("response upsert rejected", "op", integrityErr.Op, "error", integrityErr.Err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "integrity error: "+integrityErr.Err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to upsert response", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	middleware.JSONResponse(w, status, models.SubmitResponseResponse{
		Response: resp,
		Created:  created,
	})
}

// ListResponses handles GET /responses?project_id=&worker_id=
func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	var filter store.ResponseFilter
	var err error

	if filter.ProjectID, err = optionalID(r, "project_id"); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.WorkerID, err = optionalID(r, "worker_id"); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	responses, err := h.store.Queries().ListResponses(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, responses)
}

// optionalID parses an integer query parameter, nil when absent.
func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New(name + " must be an integer")
	}
	return &id, nil
}
