// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/store"
)

type ValidationHandler struct {
	validations store.ValidationStore
}

func NewValidationHandler(db *sql.DB) *ValidationHandler {
	return &ValidationHandler{validations: store.New(db).Queries()}
}

// CreateValidation handles POST /validations
func (h *ValidationHandler) CreateValidation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateValidationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ProjectID == 0 || req.DeviceID == 0 || req.WorkerID == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project_id, device_id and worker_id are required")
		return
	}

	v, err := h.validations.CreateValidation(r.Context(), req)
	var integrityErr *store.IntegrityError
	if errors.As(err, &integrityErr) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown project, device, subtracker or worker")
		return
	}
	if err != nil {
		slog.Error("failed to create validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create validation")
		return
	}

	slog.Info("validation started", "validation_id", v.ID, "device_id", v.DeviceID)
	middleware.JSONResponse(w, http.StatusCreated, v)
}

// CompleteValidation handles POST /validations/{id}/complete
func (h *ValidationHandler) CompleteValidation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req models.CompleteValidationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Status == "" {
		req.Status = models.ValidationCompleted
	}
	if req.Status != models.ValidationCompleted && req.Status != models.ValidationFailed {
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be completed or failed")
		return
	}

	v, err := h.validations.CompleteValidation(r.Context(), id, req)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Validation not found")
		return
	}
	if err != nil {
		slog.Error("failed to complete validation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete validation")
		return
	}

	slog.Info("validation completed", "validation_id", v.ID, "status", v.Status)
	middleware.JSONResponse(w, http.StatusOK, v)
}

// ListValidations handles GET /validations?project_id=
func (h *ValidationHandler) ListValidations(w http.ResponseWriter, r *http.Request) {
	projectID, err := optionalID(r, "project_id")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	validations, err := h.validations.ListValidations(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to list validations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, validations)
}
