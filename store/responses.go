// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/fabval/models"
)

// ResponseKey identifies a response. QuestionID and ProjectID are required;
// the nullable members match as given, nil matching NULL.
type ResponseKey struct {
	QuestionID   int64
	SubtrackerID *int64
	DeviceID     *int64
	ProjectID    int64
	WorkerID     *int64
}

// ResponseFields are the mutable columns. Nil leaves an existing value as is;
// an empty ResponseText or Comments clears the column, an empty Status is
// treated like nil.
type ResponseFields struct {
	ResponseText *string
	Status       *string
	Comments     *string
}

type ResponseFilter struct {
	ProjectID *int64
	WorkerID  *int64
}

const responseColumns = `id, question_id, subtracker_id, project_id, device_id, worker_id, response_text, status, created_at, comments`

func scanResponse(row interface{ Scan(...any) error }) (models.Response, error) {
	var r models.Response
	var questionID, subtrackerID, deviceID, workerID sql.NullInt64
	var text, comments sql.NullString
	err := row.Scan(&r.ID, &questionID, &subtrackerID, &r.ProjectID, &deviceID, &workerID,
		&text, &r.Status, &r.CreatedAt, &comments)
	if err != nil {
		return models.Response{}, err
	}
	r.QuestionID = intPtr(questionID)
	r.SubtrackerID = intPtr(subtrackerID)
	r.DeviceID = intPtr(deviceID)
	r.WorkerID = intPtr(workerID)
	r.ResponseText = stringPtr(text)
	r.Comments = stringPtr(comments)
	return r, nil
}

// UpsertResponse updates the response matching key in place, or inserts it
// with status "pending" unless fields.Status says otherwise. created reports
// whether a row was inserted.
func (q *Queries) UpsertResponse(ctx context.Context, key ResponseKey, fields ResponseFields) (models.Response, bool, error) {
	existing, err := scanResponse(q.db.QueryRowContext(ctx, `
		SELECT `+responseColumns+`
		FROM responses
		WHERE question_id = $1
		  AND project_id = $2
		  AND subtracker_id IS NOT DISTINCT FROM $3
		  AND device_id IS NOT DISTINCT FROM $4
		  AND worker_id IS NOT DISTINCT FROM $5
	`, key.QuestionID, key.ProjectID, nullInt(key.SubtrackerID), nullInt(key.DeviceID), nullInt(key.WorkerID)))

	setText, text := clearable(fields.ResponseText)
	setComments, comments := clearable(fields.Comments)

	switch {
	case err == nil:
		_, err := q.db.ExecContext(ctx, `
			UPDATE responses
			SET response_text = CASE WHEN $1 THEN $2 ELSE response_text END,
			    status = COALESCE($3, status),
			    comments = CASE WHEN $4 THEN $5 ELSE comments END
			WHERE id = $6
		`, setText, text, nonEmpty(fields.Status), setComments, comments, existing.ID)
		if err != nil {
			return models.Response{}, false, wrapDBError("update response", err)
		}
		updated, err := q.getResponse(ctx, existing.ID)
		return updated, false, err

	case !errors.Is(err, sql.ErrNoRows):
		return models.Response{}, false, wrapDBError("find response", err)
	}

	status := models.StatusPending
	if fields.Status != nil && *fields.Status != "" {
		status = *fields.Status
	}
	var id int64
	err = q.db.QueryRowContext(ctx, `
		INSERT INTO responses (question_id, subtracker_id, project_id, device_id, worker_id, response_text, status, created_at, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, key.QuestionID, nullInt(key.SubtrackerID), key.ProjectID, nullInt(key.DeviceID), nullInt(key.WorkerID),
		text, status, time.Now().UTC(), comments).Scan(&id)
	if err != nil {
		return models.Response{}, false, wrapDBError("insert response", err)
	}
	inserted, err := q.getResponse(ctx, id)
	return inserted, true, err
}

// clearable maps an optional text field onto the (set, value) pair of the
// update: nil leaves the column alone, "" sets it to NULL.
func clearable(p *string) (bool, sql.NullString) {
	if p == nil {
		return false, sql.NullString{}
	}
	return true, nonEmpty(p)
}

func nonEmpty(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func (q *Queries) getResponse(ctx context.Context, id int64) (models.Response, error) {
	r, err := scanResponse(q.db.QueryRowContext(ctx, `SELECT `+responseColumns+` FROM responses WHERE id = $1`, id))
	if err != nil {
		return models.Response{}, wrapDBError("get response", err)
	}
	return r, nil
}

// ListResponses returns responses ordered by id, optionally filtered.
func (q *Queries) ListResponses(ctx context.Context, filter ResponseFilter) ([]models.Response, error) {
	var where []string
	var args []any
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.WorkerID != nil {
		args = append(args, *filter.WorkerID)
		where = append(where, fmt.Sprintf("worker_id = $%d", len(args)))
	}

	query := `SELECT ` + responseColumns + ` FROM responses`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list responses", err)
	}
	defer rows.Close()

	responses := []models.Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, wrapDBError("scan response", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("list responses", err)
	}
	return responses, nil
}
