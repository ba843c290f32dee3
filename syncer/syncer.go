// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package syncer

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/fabval/grouping"
	"github.com/danielhkuo/fabval/models"
	"github.com/danielhkuo/fabval/redmine"
	"github.com/danielhkuo/fabval/store"
	"github.com/danielhkuo/fabval/telemetry"
)

// IssueSource yields the complete issue list for one synchronization.
type IssueSource interface {
	FetchIssues(ctx context.Context) ([]redmine.Issue, error)
}

// SourceFactory builds an IssueSource for the credentials of one request.
type SourceFactory func(url, user, pass string) IssueSource

// RedmineSource returns a factory for Redmine clients with the given page
// size and per-request timeout.
func RedmineSource(pageSize int, timeout time.Duration) SourceFactory {
	return func(url, user, pass string) IssueSource {
		c := redmine.NewClient(url, user, pass)
		if pageSize > 0 {
			c.PageSize = pageSize
		}
		if timeout > 0 {
			c.HTTPClient.Timeout = timeout
		}
		return c
	}
}

// Transactor runs a function inside one transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.UnitOfWork) error) error
}

// Result describes what one synchronization persisted.
type Result struct {
	ProjectID   int64
	ProjectName string
	WorkerID    int64
	WorkerName  string
	Trackers    []models.TrackerResult
	// SkippedTrackers had no matching device.
	SkippedTrackers   []string
	DuplicateTrackers []string
	ResponsesCreated  int
}

// Service runs synchronization requests.
type Service struct {
	tx        Transactor
	newSource SourceFactory
	tracer    trace.Tracer
	runs      metric.Int64Counter
	created   metric.Int64Counter
}

func NewService(tx Transactor, newSource SourceFactory) *Service {
	m := telemetry.Meter(telemetry.ScopeName + "/syncer")
	runs, _ := m.Int64Counter("fabval.sync.runs",
		metric.WithDescription("Synchronization requests by outcome"),
	)
	created, _ := m.Int64Counter("fabval.sync.responses.created",
		metric.WithDescription("Pending responses seeded by synchronization"),
	)
	return &Service{
		tx:        tx,
		newSource: newSource,
		tracer:    telemetry.Tracer(telemetry.ScopeName + "/syncer"),
		runs:      runs,
		created:   created,
	}
}

// Sync fetches every issue, groups them, and reconciles the first project
// group against the store in a single transaction. Trackers without a
// device are skipped. For every question that applies to a (device,
// subtracker) pair a pending response is seeded for the worker. Any
// persistence error rolls the whole request back.
func (s *Service) Sync(ctx context.Context, req models.SyncRequest) (result *Result, err error) {
	ctx, span := s.tracer.Start(ctx, "syncer.Sync")
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
		span.End()
	}()

	if req.URL == "" || req.User == "" || req.Pass == "" {
		return nil, &ValidationError{Message: "url, user and pass are required"}
	}

	issues, err := s.newSource(req.URL, req.User, req.Pass).FetchIssues(ctx)
	if err != nil {
		return nil, err
	}

	grouped := grouping.Group(slices.Values(issues), req.User)
	if len(grouped.DuplicateTrackers) > 0 {
		slog.Debug("tracker names seen more than once", "count", len(grouped.DuplicateTrackers))
	}
	if len(grouped.Projects) == 0 {
		return nil, &ValidationError{Message: "no issues with a " + grouping.TrackerPrefix + " tracker were found"}
	}

	group := grouped.Projects[0]
	if group.ProjectName == "" || group.WorkerName == "" {
		return nil, &ValidationError{Message: "project_name and worker_name are required"}
	}
	span.SetAttributes(
		attribute.String("fabval.project", group.ProjectName),
		attribute.Int("fabval.tracker.count", len(group.Trackers)),
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx store.UnitOfWork) error {
		result = &Result{
			ProjectName:       group.ProjectName,
			WorkerName:        group.WorkerName,
			Trackers:          []models.TrackerResult{},
			DuplicateTrackers: grouped.DuplicateTrackers,
		}
		return s.reconcile(ctx, tx, group, result)
	})
	if err != nil {
		return nil, err
	}

	s.created.Add(ctx, int64(result.ResponsesCreated))
	slog.Info("sync completed",
		"project", result.ProjectName,
		"worker", result.WorkerName,
		"trackers", len(result.Trackers),
		"skipped_trackers", len(result.SkippedTrackers),
		"responses_created", humanize.Comma(int64(result.ResponsesCreated)),
	)
	return result, nil
}

func (s *Service) reconcile(ctx context.Context, tx store.UnitOfWork, group grouping.ProjectGroup, result *Result) error {
	projectID, err := tx.ResolveProject(ctx, group.ProjectName)
	if err != nil {
		return err
	}
	workerID, err := tx.ResolveWorker(ctx, group.WorkerName)
	if err != nil {
		return err
	}
	result.ProjectID = projectID
	result.WorkerID = workerID

	for _, tracker := range group.Trackers {
		device, err := tx.FindDeviceByName(ctx, tracker.TrackerName)
		if errors.Is(err, store.ErrNotFound) {
			result.SkippedTrackers = append(result.SkippedTrackers, tracker.TrackerName)
			continue
		}
		if err != nil {
			return err
		}

		info := models.TrackerResult{
			TrackerName: tracker.TrackerName,
			Subjects:    []models.SubjectResult{},
		}
		for _, subject := range tracker.Subjects {
			subtrackerID, err := tx.ResolveSubtracker(ctx, projectID, subject)
			if err != nil {
				return err
			}
			if err := tx.ResolveDeviceSubtracker(ctx, device.ID, subtrackerID); err != nil {
				return err
			}

			questions, err := ResolveQuestions(ctx, tx, subtrackerID, device.ID)
			if err != nil {
				return err
			}
			if err := s.seedResponses(ctx, tx, questions, store.ResponseKey{
				SubtrackerID: &subtrackerID,
				DeviceID:     &device.ID,
				ProjectID:    projectID,
				WorkerID:     &workerID,
			}, result); err != nil {
				return err
			}

			info.Subjects = append(info.Subjects, models.SubjectResult{
				Subject:      subject,
				SubtrackerID: subtrackerID,
				Questions:    questions,
			})
		}
		result.Trackers = append(result.Trackers, info)
	}
	return nil
}

// seedResponses upserts one response per question with no content, so an
// existing answer is left as it is.
func (s *Service) seedResponses(ctx context.Context, tx store.ResponseStore, questions *models.QuestionSet, key store.ResponseKey, result *Result) error {
	if questions == nil {
		return nil
	}
	for _, block := range questions.Subjects {
		for _, q := range block.Questions {
			key.QuestionID = q.ID
			_, created, err := tx.UpsertResponse(ctx, key, store.ResponseFields{})
			if err != nil {
				return err
			}
			if created {
				result.ResponsesCreated++
			}
		}
	}
	return nil
}
