// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/fabval/models"
)

// BlockQuestionRow is one question reachable from a device through the
// device_question_block join.
type BlockQuestionRow struct {
	BlockID   int64
	BlockName string
	Question  models.QuestionItem
}

// ListQuestions returns every question, or only those attached to deviceID
// when it is non-nil.
func (q *Queries) ListQuestions(ctx context.Context, deviceID *int64) ([]models.Question, error) {
	query := `SELECT id, question_text, expected_result, device_id, question_block_id FROM questions`
	var args []any
	if deviceID != nil {
		query += ` WHERE device_id = $1`
		args = append(args, *deviceID)
	}
	query += ` ORDER BY id`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapDBError("list questions", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var qu models.Question
		var dev sql.NullInt64
		if err := rows.Scan(&qu.ID, &qu.QuestionText, &qu.ExpectedResult, &dev, &qu.BlockID); err != nil {
			return nil, wrapDBError("scan question", err)
		}
		qu.DeviceID = intPtr(dev)
		questions = append(questions, qu)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("list questions", err)
	}
	return questions, nil
}

// DeviceBlockQuestions returns the questions of every block linked to the
// device, ordered by block then question. Blocks without questions do not
// appear.
func (q *Queries) DeviceBlockQuestions(ctx context.Context, deviceID int64) ([]BlockQuestionRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT qb.id, qb.name, qu.id, qu.question_text, qu.expected_result
		FROM device_question_block dqb
		JOIN question_blocks qb ON qb.id = dqb.question_block_id
		JOIN questions qu ON qu.question_block_id = qb.id
		WHERE dqb.device_id = $1
		ORDER BY qb.id, qu.id
	`, deviceID)
	if err != nil {
		return nil, wrapDBError("device block questions", err)
	}
	defer rows.Close()

	var out []BlockQuestionRow
	for rows.Next() {
		var r BlockQuestionRow
		if err := rows.Scan(&r.BlockID, &r.BlockName, &r.Question.ID, &r.Question.QuestionText, &r.Question.ExpectedResult); err != nil {
			return nil, wrapDBError("scan block question", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("device block questions", err)
	}
	return out, nil
}
