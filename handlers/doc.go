// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the fabval API.

# Handler Types

Each handler is a struct built from the shared *sql.DB:

  - SyncHandler: POST /data, pulls a Redmine instance into the store
  - QuestionHandler: GET /questions
  - ResponseHandler: worker answers (POST/GET /responses)
  - ValidationHandler: validation sessions
  - HealthHandler: GET /ping and GET /api/check-db

	syncHandler := handlers.NewSyncHandler(db, cfg)

# Synchronization

POST /data takes {url, user, pass}. On success it returns the project,
the worker and, per tracker that names a known device, the subjects with
their subtracker ids and applicable questions. Failures are reported as
{success: false, message}:

	400  bad JSON, missing credentials, nothing to synchronize
	500  Redmine fetch failure
	500  "integrity error: ..." when a constraint rolled the request back

# Questions

GET /questions lists every question, or only those of one device with
?device_id=. A non-integer id is a 400. An empty result is a 404 with
{"message": "No questions found"}.

# Responses

POST /responses upserts by (question, subtracker, device, project,
worker). Fields omitted from the body keep their stored values. The reply
is 201 when the row was created and 200 when it was updated.

# Validations

	POST /validations                 → open a session (in_progress)
	POST /validations/{id}/complete   → close it as completed or failed
	GET  /validations?project_id=     → list sessions

# Error Responses

Apart from POST /data, all errors return JSON:

	{"error": "Bad Request", "message": "question_id and project_id are required"}
*/
package handlers
