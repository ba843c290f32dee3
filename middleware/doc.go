// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("POST /data", middleware.WithLogging(handler))

Every request gets an id, taken from the X-Request-ID header or generated
as a UUID, which is echoed back on the response and attached to the start
and completion log lines.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(cfg.AllowedOrigin, mux),
	}

Preflight requests are answered directly. An empty origin reflects the
caller's Origin header.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.StatusResponse(w, http.StatusOK, true, "Database connection successful")
*/
package middleware
