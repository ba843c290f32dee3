// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"time"

	"github.com/danielhkuo/fabval/models"
)

// ResolveProject returns the id of the project with this name, creating it
// on first encounter.
func (q *Queries) ResolveProject(ctx context.Context, name string) (int64, error) {
	now := time.Now().UTC()
	return q.resolveID(ctx, "project",
		`SELECT id FROM projects WHERE name = $1`, []any{name},
		`INSERT INTO projects (name, created_at, updated_at) VALUES ($1, $2, $3) RETURNING id`,
		[]any{name, now, now},
	)
}

// ResolveWorker returns the id of the worker with this name, creating it on
// first encounter.
func (q *Queries) ResolveWorker(ctx context.Context, name string) (int64, error) {
	return q.resolveID(ctx, "worker",
		`SELECT id FROM workers WHERE name = $1`, []any{name},
		`INSERT INTO workers (name) VALUES ($1) RETURNING id`, []any{name},
	)
}

// ResolveSubtracker returns the subtracker named after subject within the
// project, creating it when absent. The key is (project_id, name): the same
// subject in two projects yields two subtrackers.
func (q *Queries) ResolveSubtracker(ctx context.Context, projectID int64, name string) (int64, error) {
	return q.resolveID(ctx, "subtracker",
		`SELECT id FROM subtrackers WHERE name = $1 AND project_id = $2`, []any{name, projectID},
		`INSERT INTO subtrackers (name, project_id) VALUES ($1, $2) RETURNING id`, []any{name, projectID},
	)
}

func (q *Queries) GetSubtracker(ctx context.Context, id int64) (models.Subtracker, error) {
	var st models.Subtracker
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, project_id FROM subtrackers WHERE id = $1
	`, id).Scan(&st.ID, &st.Name, &st.ProjectID)
	if err != nil {
		return models.Subtracker{}, wrapDBError("get subtracker", err)
	}
	return st, nil
}

// FindSubtrackerByName looks a subtracker up by name alone, ignoring the
// project. It returns the oldest match. Reconciliation never uses it; it
// exists to inspect name collisions across projects.
func (q *Queries) FindSubtrackerByName(ctx context.Context, name string) (models.Subtracker, error) {
	var st models.Subtracker
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, project_id FROM subtrackers WHERE name = $1 ORDER BY id LIMIT 1
	`, name).Scan(&st.ID, &st.Name, &st.ProjectID)
	if err != nil {
		return models.Subtracker{}, wrapDBError("find subtracker by name", err)
	}
	return st, nil
}

func (q *Queries) GetDevice(ctx context.Context, id int64) (models.Device, error) {
	var d models.Device
	err := q.db.QueryRowContext(ctx, `SELECT id, name FROM devices WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		return models.Device{}, wrapDBError("get device", err)
	}
	return d, nil
}

// FindDeviceByName never creates: devices are seeded out-of-band, so a
// miss returns ErrNotFound.
func (q *Queries) FindDeviceByName(ctx context.Context, name string) (models.Device, error) {
	var d models.Device
	err := q.db.QueryRowContext(ctx, `SELECT id, name FROM devices WHERE name = $1`, name).Scan(&d.ID, &d.Name)
	if err != nil {
		return models.Device{}, wrapDBError("find device", err)
	}
	return d, nil
}

// ResolveDeviceSubtracker links a device to a subtracker; a no-op when the
// pair is already linked.
func (q *Queries) ResolveDeviceSubtracker(ctx context.Context, deviceID, subtrackerID int64) error {
	_, err := q.resolveID(ctx, "device subtracker",
		`SELECT id FROM devices_subtrackers WHERE device_id = $1 AND subtracker_id = $2`,
		[]any{deviceID, subtrackerID},
		`INSERT INTO devices_subtrackers (device_id, subtracker_id) VALUES ($1, $2) RETURNING id`,
		[]any{deviceID, subtrackerID},
	)
	return err
}
