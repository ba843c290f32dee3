// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the fabval API.

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /ping          - Liveness, plain "pong"
	GET /api/check-db  - Database probe

Synchronization:

	POST /data - Fetch a Redmine instance and reconcile it

Catalog and answers:

	GET  /questions  - Questions, optionally ?device_id=
	POST /responses  - Submit or update an answer
	GET  /responses  - List answers, optionally ?project_id=&worker_id=

Validation sessions:

	POST /validations                - Start
	POST /validations/{id}/complete  - Finish
	GET  /validations                - List, optionally ?project_id=

Everything except GET /ping is wrapped in middleware.WithLogging.
*/
package router
