// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/store"
)

type stubQuestions struct {
	subtrackers map[int64]models.Subtracker
	devices     map[int64]models.Device
	rows        map[int64][]store.BlockQuestionRow
	err         error
}

func (s stubQuestions) GetSubtracker(_ context.Context, id int64) (models.Subtracker, error) {
	st, ok := s.subtrackers[id]
	if !ok {
		return models.Subtracker{}, store.ErrNotFound
	}
	return st, nil
}

func (s stubQuestions) GetDevice(_ context.Context, id int64) (models.Device, error) {
	if s.err != nil {
		return models.Device{}, s.err
	}
	d, ok := s.devices[id]
	if !ok {
		return models.Device{}, store.ErrNotFound
	}
	return d, nil
}

func (s stubQuestions) DeviceBlockQuestions(_ context.Context, deviceID int64) ([]store.BlockQuestionRow, error) {
	return s.rows[deviceID], nil
}

func row(blockID int64, block string, id int64, text string) store.BlockQuestionRow {
	return store.BlockQuestionRow{
		BlockID:   blockID,
		BlockName: block,
		Question:  models.QuestionItem{ID: id, QuestionText: text, ExpectedResult: "yes"},
	}
}

func TestResolveQuestions_GroupsByBlock(t *testing.T) {
	src := stubQuestions{
		subtrackers: map[int64]models.Subtracker{10: {ID: 10, Name: "Unit 7"}},
		devices:     map[int64]models.Device{1: {ID: 1, Name: "P_PUMP"}},
		rows: map[int64][]store.BlockQuestionRow{1: {
			row(1, "Electrical", 100, "Insulation?"),
			row(1, "Electrical", 101, "Earth?"),
			row(2, "Mechanical", 200, "Torque?"),
		}},
	}

	set, err := ResolveQuestions(context.Background(), src, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, "Unit 7", set.TrackerName)
	require.Len(t, set.Subjects, 2)
	assert.Equal(t, "Electrical", set.Subjects[0].QuestionBlock)
	assert.Equal(t, []int64{100, 101}, []int64{set.Subjects[0].Questions[0].ID, set.Subjects[0].Questions[1].ID})
	assert.Equal(t, "Mechanical", set.Subjects[1].QuestionBlock)
	assert.Len(t, set.Subjects[1].Questions, 1)
}

func TestResolveQuestions_NoBlocks(t *testing.T) {
	src := stubQuestions{
		subtrackers: map[int64]models.Subtracker{10: {ID: 10, Name: "Unit 7"}},
		devices:     map[int64]models.Device{1: {ID: 1}},
	}

	set, err := ResolveQuestions(context.Background(), src, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.NotNil(t, set.Subjects)
	assert.Empty(t, set.Subjects)
}

func TestResolveQuestions_LenientMiss(t *testing.T) {
	src := stubQuestions{
		subtrackers: map[int64]models.Subtracker{10: {ID: 10, Name: "Unit 7"}},
		devices:     map[int64]models.Device{1: {ID: 1}},
	}

	set, err := ResolveQuestions(context.Background(), src, 99, 1)
	assert.NoError(t, err)
	assert.Nil(t, set, "unknown subtracker")

	set, err = ResolveQuestions(context.Background(), src, 10, 99)
	assert.NoError(t, err)
	assert.Nil(t, set, "unknown device")
}

func TestResolveQuestions_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	src := stubQuestions{
		subtrackers: map[int64]models.Subtracker{10: {ID: 10}},
		err:         boom,
	}

	_, err := ResolveQuestions(context.Background(), src, 10, 1)
	assert.ErrorIs(t, err, boom)
}
