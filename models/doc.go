// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SyncRequest: url, user, pass
  - SubmitResponseRequest: response key tuple plus optional text/status/comments
  - CreateValidationRequest: project_id, device_id, worker_id, subtracker_id
  - CompleteValidationRequest: status, validation_result, comments, validated_by

# Response Types

Types for JSON responses:

  - SyncResponse: success, project_name, worker_name, trackers
  - TrackerResult / SubjectResult: per-tracker and per-subject sync output
  - QuestionSet / BlockQuestions / QuestionItem: resolved questions
  - StatusResponse: success, message
  - ErrorResponse: error, message

# Domain Types

Rows of the persisted data model:

  - Project, Worker, Subtracker: reconciled from tracker data
  - Device, QuestionBlock, Question: seeded reference data
  - Response: one answer slot per question and context
  - Validation: a validation session

# Constants

Response status:

	StatusPending = "pending"

Validation status:

	ValidationInProgress = "in_progress"
	ValidationCompleted  = "completed"
	ValidationFailed     = "failed"
*/
package models
