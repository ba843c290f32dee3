// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/fabval/db"
)

// SeedStats counts what a catalog seed touched (found or created).
type SeedStats struct {
	Devices   int
	Blocks    int
	Questions int
	Links     int
}

func (q *Queries) EnsureDevice(ctx context.Context, name string) (int64, error) {
	return q.resolveID(ctx, "device",
		`SELECT id FROM devices WHERE name = $1`, []any{name},
		`INSERT INTO devices (name) VALUES ($1) RETURNING id`, []any{name},
	)
}

// EnsureQuestionBlock finds a block by name; the description is only used
// when the block is created.
func (q *Queries) EnsureQuestionBlock(ctx context.Context, name, description string) (int64, error) {
	return q.resolveID(ctx, "question block",
		`SELECT id FROM question_blocks WHERE name = $1`, []any{name},
		`INSERT INTO question_blocks (name, description) VALUES ($1, $2) RETURNING id`, []any{name, description},
	)
}

// EnsureQuestion finds a question by (block, text).
func (q *Queries) EnsureQuestion(ctx context.Context, blockID int64, text, expectedResult string, deviceID *int64) (int64, error) {
	return q.resolveID(ctx, "question",
		`SELECT id FROM questions WHERE question_block_id = $1 AND question_text = $2`, []any{blockID, text},
		`INSERT INTO questions (question_text, expected_result, question_block_id, device_id) VALUES ($1, $2, $3, $4) RETURNING id`,
		[]any{text, expectedResult, blockID, nullInt(deviceID)},
	)
}

func (q *Queries) LinkDeviceQuestionBlock(ctx context.Context, deviceID, blockID int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO device_question_block (device_id, question_block_id)
		VALUES ($1, $2)
		ON CONFLICT (device_id, question_block_id) DO NOTHING
	`, deviceID, blockID)
	return wrapDBError("link device question block", err)
}

// SeedCatalog applies a catalog in one transaction. Re-applying the same
// catalog changes nothing.
func (s *Store) SeedCatalog(ctx context.Context, c db.Catalog) (SeedStats, error) {
	var stats SeedStats
	err := s.RunInTx(ctx, func(ctx context.Context, tx UnitOfWork) error {
		stats = SeedStats{}
		devices := map[string]int64{}
		device := func(name string) (int64, error) {
			if id, ok := devices[name]; ok {
				return id, nil
			}
			id, err := tx.EnsureDevice(ctx, name)
			if err != nil {
				return 0, err
			}
			devices[name] = id
			stats.Devices++
			return id, nil
		}

		for _, name := range c.Devices {
			if _, err := device(name); err != nil {
				return err
			}
		}

		for _, b := range c.QuestionBlocks {
			blockID, err := tx.EnsureQuestionBlock(ctx, b.Name, b.Description)
			if err != nil {
				return err
			}
			stats.Blocks++

			for _, name := range b.Devices {
				deviceID, err := device(name)
				if err != nil {
					return err
				}
				if err := tx.LinkDeviceQuestionBlock(ctx, deviceID, blockID); err != nil {
					return err
				}
				stats.Links++
			}

			for _, qu := range b.Questions {
				var deviceID *int64
				if qu.Device != "" {
					id, err := device(qu.Device)
					if err != nil {
						return err
					}
					deviceID = &id
				}
				if _, err := tx.EnsureQuestion(ctx, blockID, qu.Text, qu.ExpectedResult, deviceID); err != nil {
					return fmt.Errorf("block %q: %w", b.Name, err)
				}
				stats.Questions++
			}
		}
		return nil
	})
	return stats, err
}
