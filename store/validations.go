// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/danielhkuo/fabval/models"
)

const validationColumns = `id, project_id, device_id, subtracker_id, worker_id, start_date, end_date, status, validation_result, comments, validated_by`

func scanValidation(row interface{ Scan(...any) error }) (models.Validation, error) {
	var v models.Validation
	var subtrackerID sql.NullInt64
	var endDate sql.NullTime
	var result, comments, validatedBy sql.NullString
	err := row.Scan(&v.ID, &v.ProjectID, &v.DeviceID, &subtrackerID, &v.WorkerID, &v.StartDate,
		&endDate, &v.Status, &result, &comments, &validatedBy)
	if err != nil {
		return models.Validation{}, err
	}
	v.SubtrackerID = intPtr(subtrackerID)
	if endDate.Valid {
		t := endDate.Time
		v.EndDate = &t
	}
	v.ValidationResult = stringPtr(result)
	v.Comments = stringPtr(comments)
	v.ValidatedBy = stringPtr(validatedBy)
	return v, nil
}

// CreateValidation opens a validation session in status in_progress.
func (q *Queries) CreateValidation(ctx context.Context, req models.CreateValidationRequest) (models.Validation, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO validations (project_id, device_id, subtracker_id, worker_id, start_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, req.ProjectID, req.DeviceID, nullInt(req.SubtrackerID), req.WorkerID, time.Now().UTC(), models.ValidationInProgress).Scan(&id)
	if err != nil {
		return models.Validation{}, wrapDBError("insert validation", err)
	}
	return q.getValidation(ctx, id)
}

// CompleteValidation closes a session, stamping end_date. Nil optional fields
// keep their stored values.
func (q *Queries) CompleteValidation(ctx context.Context, id int64, req models.CompleteValidationRequest) (models.Validation, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE validations
		SET end_date = $1,
		    status = $2,
		    validation_result = COALESCE($3, validation_result),
		    comments = COALESCE($4, comments),
		    validated_by = COALESCE($5, validated_by)
		WHERE id = $6
	`, time.Now().UTC(), req.Status, nullString(req.ValidationResult), nullString(req.Comments), nullString(req.ValidatedBy), id)
	if err != nil {
		return models.Validation{}, wrapDBError("complete validation", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Validation{}, wrapDBError("complete validation", err)
	}
	if n == 0 {
		return models.Validation{}, wrapDBError("complete validation", sql.ErrNoRows)
	}
	return q.getValidation(ctx, id)
}

func (q *Queries) ListValidations(ctx context.Context, projectID *int64) ([]models.Validation, error) {
	query := `SELECT ` + validationColumns + ` FROM validations`
	var args []any
	if projectID != nil {
		query += ` WHERE project_id = $1`
		args = append(args, *projectID)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list validations", err)
	}
	defer rows.Close()

	validations := []models.Validation{}
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, wrapDBError("scan validation", err)
		}
		validations = append(validations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("list validations", err)
	}
	return validations, nil
}

func (q *Queries) getValidation(ctx context.Context, id int64) (models.Validation, error) {
	v, err := scanValidation(q.db.QueryRowContext(ctx, `SELECT `+validationColumns+` FROM validations WHERE id = $1`, id))
	if err != nil {
		return models.Validation{}, wrapDBError("get validation", err)
	}
	return v, nil
}
