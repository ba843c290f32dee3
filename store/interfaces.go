// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"

	"github.com/danielhkuo/fabval/models"
)

type ProjectStore interface {
	ResolveProject(ctx context.Context, name string) (int64, error)
}

type WorkerStore interface {
	ResolveWorker(ctx context.Context, name string) (int64, error)
}

type SubtrackerStore interface {
	ResolveSubtracker(ctx context.Context, projectID int64, name string) (int64, error)
	GetSubtracker(ctx context.Context, id int64) (models.Subtracker, error)
	FindSubtrackerByName(ctx context.Context, name string) (models.Subtracker, error)
}

type DeviceStore interface {
	GetDevice(ctx context.Context, id int64) (models.Device, error)
	FindDeviceByName(ctx context.Context, name string) (models.Device, error)
	ResolveDeviceSubtracker(ctx context.Context, deviceID, subtrackerID int64) error
}

type QuestionStore interface {
	ListQuestions(ctx context.Context, deviceID *int64) ([]models.Question, error)
	DeviceBlockQuestions(ctx context.Context, deviceID int64) ([]BlockQuestionRow, error)
}

type ResponseStore interface {
	UpsertResponse(ctx context.Context, key ResponseKey, fields ResponseFields) (models.Response, bool, error)
	ListResponses(ctx context.Context, filter ResponseFilter) ([]models.Response, error)
}

type ValidationStore interface {
	CreateValidation(ctx context.Context, req models.CreateValidationRequest) (models.Validation, error)
	CompleteValidation(ctx context.Context, id int64, req models.CompleteValidationRequest) (models.Validation, error)
	ListValidations(ctx context.Context, projectID *int64) ([]models.Validation, error)
}

type CatalogStore interface {
	EnsureDevice(ctx context.Context, name string) (int64, error)
	EnsureQuestionBlock(ctx context.Context, name, description string) (int64, error)
	EnsureQuestion(ctx context.Context, blockID int64, text, expectedResult string, deviceID *int64) (int64, error)
	LinkDeviceQuestionBlock(ctx context.Context, deviceID, blockID int64) error
}

// UnitOfWork is every repository bound to one transaction.
type UnitOfWork interface {
	ProjectStore
	WorkerStore
	SubtrackerStore
	DeviceStore
	QuestionStore
	ResponseStore
	ValidationStore
	CatalogStore
}

var _ UnitOfWork = (*Queries)(nil)
