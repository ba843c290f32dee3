// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"errors"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/store"
)

// QuestionSource is the slice of a unit of work that question resolution
// reads from.
type QuestionSource interface {
	GetSubtracker(ctx context.Context, id int64) (models.Subtracker, error)
	GetDevice(ctx context.Context, id int64) (models.Device, error)
	DeviceBlockQuestions(ctx context.Context, deviceID int64) ([]store.BlockQuestionRow, error)
}

// ResolveQuestions returns the questions of every block linked to the
// device, grouped by block and labelled with the subtracker's name. An
// unknown subtracker or device yields nil without error.
func ResolveQuestions(ctx context.Context, src QuestionSource, subtrackerID, deviceID int64) (*models.QuestionSet, error) {
	subtracker, err := src.GetSubtracker(ctx, subtrackerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := src.GetDevice(ctx, deviceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := src.DeviceBlockQuestions(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	set := &models.QuestionSet{
		TrackerName: subtracker.Name,
		Subjects:    []models.BlockQuestions{},
	}
	// rows arrive ordered by block, so each block is one contiguous run
	lastBlock := int64(-1)
	for _, r := range rows {
		if r.BlockID != lastBlock {
			set.Subjects = append(set.Subjects, models.BlockQuestions{QuestionBlock: r.BlockName})
			lastBlock = r.BlockID
		}
		block := &set.Subjects[len(set.Subjects)-1]
		block.Questions = append(block.Questions, r.Question)
	}
	return set, nil
}
