// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/fabval/cliparse"
	"github.com/danielhkuo/fabval/handlers"
	"github.com/danielhkuo/fabval/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	syncHandler := handlers.NewSyncHandler(db, cfg)
	questionHandler := handlers.NewQuestionHandler(db)
	responseHandler := handlers.NewResponseHandler(db)
	validationHandler := handlers.NewValidationHandler(db)
	healthHandler := handlers.NewHealthHandler(db)

	// Health checks
	mux.HandleFunc("GET /ping", healthHandler.Ping)
	mux.HandleFunc("GET /api/check-db", middleware.WithLogging(healthHandler.CheckDB))

	// Redmine synchronization
	mux.HandleFunc("POST /data", middleware.WithLogging(syncHandler.Sync))

	// Question catalog
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.ListQuestions))

	// Worker answers
	mux.HandleFunc("POST /responses", middleware.WithLogging(responseHandler.SubmitResponse))
	mux.HandleFunc("GET /responses", middleware.WithLogging(responseHandler.ListResponses))

	// Validation sessions
	mux.HandleFunc("POST /validations", middleware.WithLogging(validationHandler.CreateValidation))
	mux.HandleFunc("POST /validations/{id}/complete", middleware.WithLogging(validationHandler.CompleteValidation))
	mux.HandleFunc("GET /validations", middleware.WithLogging(validationHandler.ListValidations))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fabval API v1"))
	})

	return mux
}
