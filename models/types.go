package models

import "time"

// Response status constants
const (
	StatusPending = "pending"
)

// Validation status constants
const (
	ValidationInProgress = "in_progress"
	ValidationCompleted  = "completed"
	ValidationFailed     = "failed"
)

// Request types

type SyncRequest struct {
	URL  string `json:"url"`
	User string `json:"user"`
	Pass string `json:"pass"`
}

// Nil fields leave the stored value untouched when the response exists.
type SubmitResponseRequest struct {
	QuestionID   int64   `json:"question_id"`
	SubtrackerID *int64  `json:"subtracker_id"`
	DeviceID     *int64  `json:"device_id"`
	ProjectID    int64   `json:"project_id"`
	WorkerID     *int64  `json:"worker_id"`
	ResponseText *string `json:"response_text"`
	Status       *string `json:"status"`
	Comments     *string `json:"comments"`
}

type CreateValidationRequest struct {
	ProjectID    int64  `json:"project_id"`
	DeviceID     int64  `json:"device_id"`
	SubtrackerID *int64 `json:"subtracker_id"`
	WorkerID     int64  `json:"worker_id"`
}

type CompleteValidationRequest struct {
	Status           string  `json:"status"`
	ValidationResult *string `json:"validation_result"`
	Comments         *string `json:"comments"`
	ValidatedBy      *string `json:"validated_by"`
}

// Response types

type SyncResponse struct {
	Success     bool            `json:"success"`
	ProjectName string          `json:"project_name"`
	WorkerName  string          `json:"worker_name"`
	Trackers    []TrackerResult `json:"trackers"`
}

type TrackerResult struct {
	TrackerName string          `json:"tracker_name"`
	Subjects    []SubjectResult `json:"subjects"`
}

type SubjectResult struct {
	Subject      string       `json:"subject"`
	SubtrackerID int64        `json:"subtracker_id"`
	Questions    *QuestionSet `json:"questions"`
}

// QuestionSet is the set of questions that apply to one subtracker on one
// device, grouped by question block.
type QuestionSet struct {
	TrackerName string           `json:"tracker_name"`
	Subjects    []BlockQuestions `json:"subjects"`
}

type BlockQuestions struct {
	QuestionBlock string         `json:"question_block"`
	Questions     []QuestionItem `json:"questions"`
}

type QuestionItem struct {
	ID             int64  `json:"id"`
	QuestionText   string `json:"question_text"`
	ExpectedResult string `json:"expected_result"`
}

type SubmitResponseResponse struct {
	Response Response `json:"response"`
	Created  bool     `json:"created"`
}

// StatusResponse is the {success, message} envelope used by /data failures
// and /api/check-db.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageResponse is the bare {message} body of GET /questions misses.
type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type Device struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Question struct {
	ID             int64  `json:"id"`
	QuestionText   string `json:"question_text"`
	ExpectedResult string `json:"expected_result"`
	DeviceID       *int64 `json:"device_id"`
	BlockID        int64  `json:"block_id"`
}

type Subtracker struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ProjectID int64  `json:"project_id"`
}

type Response struct {
	ID           int64     `json:"id"`
	QuestionID   *int64    `json:"question_id"`
	SubtrackerID *int64    `json:"subtracker_id"`
	ProjectID    int64     `json:"project_id"`
	DeviceID     *int64    `json:"device_id"`
	WorkerID     *int64    `json:"worker_id"`
	ResponseText *string   `json:"response_text"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	Comments     *string   `json:"comments"`
}

type Validation struct {
	ID               int64      `json:"id"`
	ProjectID        int64      `json:"project_id"`
	DeviceID         int64      `json:"device_id"`
	SubtrackerID     *int64     `json:"subtracker_id"`
	WorkerID         int64      `json:"worker_id"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Status           string     `json:"status"`
	ValidationResult *string    `json:"validation_result,omitempty"`
	Comments         *string    `json:"comments,omitempty"`
	ValidatedBy      *string    `json:"validated_by,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
