// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/fabval/cliparse"
	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/redmine"
	"github.com/danielhkuo/fabval/store"
	"github.com/danielhkuo/fabval/syncer"
)

type SyncHandler struct {
	svc *syncer.Service
}

func NewSyncHandler(db *sql.DB, cfg cliparse.Config) *SyncHandler {
	return &SyncHandler{
		svc: syncer.NewService(store.New(db), syncer.RedmineSource(cfg.PageSize, cfg.FetchTimeout)),
	}
}

// Sync handles POST /data
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req models.SyncRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.StatusResponse(w, http.StatusBadRequest, false, "Invalid JSON")
		return
	}

	result, err := h.svc.Sync(r.Context(), req)
	if err != nil {
		status, message := syncFailure(err)
		middleware.StatusResponse(w, status, false, message)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SyncResponse{
		Success:     true,
		ProjectName: result.ProjectName,
		WorkerName:  result.WorkerName,
		Trackers:    result.Trackers,
	})
}

// syncFailure maps a Sync error onto the HTTP status and message returned
// to the caller.
func syncFailure(err error) (int, string) {
	var validationErr *syncer.ValidationError
	var upstreamErr *redmine.UpstreamError
	var integrityErr *store.IntegrityError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.As(err, &upstreamErr):
		slog.Error("redmine fetch failed", "offset", upstreamErr.Offset, "status", upstreamErr.StatusCode, "error", upstreamErr.Err)
		return http.StatusInternalServerError, "Error fetching issues: " + upstreamErr.Error()
	case errors.As(err, &integrityErr):
		slog.Error("sync rolled back", "op", integrityErr.Op, "error", integrityErr.Err)
		return http.StatusInternalServerError, "integrity error: " + integrityErr.Err.Error()
	default:
		slog.Error("sync failed", "error", err)
		return http.StatusInternalServerError, err.Error()
	}
}
