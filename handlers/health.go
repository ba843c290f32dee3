// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/fabval/middleware"
	"github.com/danielhkuo/fabval/store"
)

// checkTimeout bounds the connectivity probe of GET /api/check-db.
const checkTimeout = 5 * time.Second

type HealthHandler struct {
	store *store.Store
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{store: store.New(db)}
}

// Ping handles GET /ping
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// CheckDB handles GET /api/check-db
func (h *HealthHandler) CheckDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		slog.Error("database check failed", "error", err)
		middleware.StatusResponse(w, http.StatusInternalServerError, false, "Database connection failed: "+err.Error())
		return
	}

	middleware.StatusResponse(w, http.StatusOK, true, "Database connection successful")
}
