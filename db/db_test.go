// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "test.db")
}

func TestOpen_SQLite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := Open(ctx, TypeSQLite, openTestSQLite(t))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Ping(ctx, conn))

	var fk int
	require.NoError(t, conn.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "root@/db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestCreateSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, TypeSQLite, openTestSQLite(t))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, CreateSchema(conn, TypeSQLite))
	require.NoError(t, CreateSchema(conn, TypeSQLite))

	for _, table := range []string{
		"projects", "devices", "question_blocks", "device_question_block", "questions",
		"workers", "subtrackers", "devices_subtrackers", "responses", "validations",
	} {
		var n int
		require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n), table)
	}

	assert.Error(t, CreateSchema(conn, "oracle"))
}

func TestIsIntegrityViolation(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, TypeSQLite, openTestSQLite(t))
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, CreateSchema(conn, TypeSQLite))

	_, err = conn.Exec(`INSERT INTO workers (name) VALUES ('alice')`)
	require.NoError(t, err)

	_, err = conn.Exec(`INSERT INTO workers (name) VALUES ('alice')`)
	require.Error(t, err)
	assert.True(t, IsIntegrityViolation(err), "unique: %v", err)

	_, err = conn.Exec(`INSERT INTO subtrackers (name, project_id) VALUES ('Unit 7', 999)`)
	require.Error(t, err)
	assert.True(t, IsIntegrityViolation(err), "foreign key: %v", err)

	_, err = conn.Exec(`SELECT * FROM no_such_table`)
	require.Error(t, err)
	assert.False(t, IsIntegrityViolation(err))

	assert.True(t, IsIntegrityViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsIntegrityViolation(&pq.Error{Code: "42P01"}))
	assert.False(t, IsIntegrityViolation(errors.New("plain")))
}

func TestWithSQLitePragmas(t *testing.T) {
	assert.Equal(t, "file:a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withSQLitePragmas("file:a.db"))
	assert.Equal(t, "file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", withSQLitePragmas("file:a.db?mode=rwc"))
	assert.Equal(t, "file:a.db?_pragma=journal_mode(WAL)", withSQLitePragmas("file:a.db?_pragma=journal_mode(WAL)"))
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(`
devices: [P_PUMP]
question_blocks:
  - name: Electrical
    devices: [P_PUMP]
    questions:
      - text: Insulation?
        expected_result: ">1 MOhm"
        device: P_PUMP
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"P_PUMP"}, c.Devices)
	require.Len(t, c.QuestionBlocks, 1)
	assert.Equal(t, "P_PUMP", c.QuestionBlocks[0].Questions[0].Device)
	assert.Equal(t, ">1 MOhm", c.QuestionBlocks[0].Questions[0].ExpectedResult)
}

func TestParseCatalog_Invalid(t *testing.T) {
	testCases := map[string]string{
		"bad yaml":          "devices: [unclosed",
		"empty device":      "devices: ['']",
		"unnamed block":     "question_blocks:\n  - description: x\n",
		"question no text":  "question_blocks:\n  - name: B\n    questions:\n      - expected_result: y\n",
		"question no value": "question_blocks:\n  - name: B\n    questions:\n      - text: q\n",
	}
	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("devices:\n  - P_VALVE\n"), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"P_VALVE"}, c.Devices)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "read catalog"))
}

func TestPostgresSchema_TrackerNameWidths(t *testing.T) {
	// Redmine names and subjects run up to 255 characters.
	for _, table := range []string{"projects", "workers", "subtrackers"} {
		start := strings.Index(postgresSchema, "CREATE TABLE IF NOT EXISTS "+table+" (")
		require.GreaterOrEqual(t, start, 0, table)
		def := postgresSchema[start:]
		def = def[:strings.Index(def, ");")]
		assert.NotContains(t, def, "VARCHAR(100)", table)
	}
}

func TestCreateSchema_ResponseKeyIndexCoversNulls(t *testing.T) {
	for name, ddl := range map[string]string{"postgres": postgresSchema, "sqlite": sqliteSchema} {
		assert.Contains(t, ddl, "DROP INDEX IF EXISTS idx_responses_key;", name)
		assert.Contains(t, ddl, "(COALESCE(subtracker_id, 0))", name)
		assert.Contains(t, ddl, "(COALESCE(worker_id, 0))", name)
	}
}
