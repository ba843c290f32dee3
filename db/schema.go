// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	var ddl string
	switch dbType {
	case TypePostgres:
		ddl = postgresSchema
	case TypeSQLite:
		ddl = sqliteSchema
	default:
		return fmt.Errorf("unsupported database type %q", dbType)
	}

	_, err := db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const postgresSchema = `
-- Projects (imported from the tracker)
CREATE TABLE IF NOT EXISTS projects (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Devices (seeded out-of-band, one per tracker)
CREATE TABLE IF NOT EXISTS devices (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS question_blocks (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL UNIQUE,
    description TEXT
);

CREATE TABLE IF NOT EXISTS device_question_block (
    device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    question_block_id INTEGER NOT NULL REFERENCES question_blocks(id) ON DELETE CASCADE,
    PRIMARY KEY (device_id, question_block_id)
);

CREATE TABLE IF NOT EXISTS questions (
    id SERIAL PRIMARY KEY,
    question_text TEXT NOT NULL,
    expected_result TEXT NOT NULL,
    question_block_id INTEGER NOT NULL REFERENCES question_blocks(id) ON DELETE CASCADE,
    device_id INTEGER REFERENCES devices(id)
);

CREATE INDEX IF NOT EXISTS idx_questions_block ON questions(question_block_id);
CREATE INDEX IF NOT EXISTS idx_questions_device ON questions(device_id);

-- Workers (people running validations)
CREATE TABLE IF NOT EXISTS workers (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL UNIQUE
);

-- Subtrackers (one per issue subject within a project)
CREATE TABLE IF NOT EXISTS subtrackers (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    UNIQUE (project_id, name)
);

CREATE TABLE IF NOT EXISTS devices_subtrackers (
    id SERIAL PRIMARY KEY,
    device_id INTEGER NOT NULL REFERENCES devices(id),
    subtracker_id INTEGER NOT NULL REFERENCES subtrackers(id) ON DELETE CASCADE,
    UNIQUE (device_id, subtracker_id)
);

CREATE TABLE IF NOT EXISTS responses (
    id SERIAL PRIMARY KEY,
    question_id INTEGER REFERENCES questions(id),
    subtracker_id INTEGER REFERENCES subtrackers(id) ON DELETE CASCADE,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    device_id INTEGER REFERENCES devices(id),
    worker_id INTEGER REFERENCES workers(id),
    response_text TEXT,
    status VARCHAR(50) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    comments TEXT
);

-- NULL key members compare equal, so at most one row exists per full key.
DROP INDEX IF EXISTS idx_responses_key;
CREATE UNIQUE INDEX IF NOT EXISTS idx_responses_full_key
    ON responses((COALESCE(question_id, 0)), (COALESCE(subtracker_id, 0)), (COALESCE(device_id, 0)),
                 project_id, (COALESCE(worker_id, 0)));
CREATE INDEX IF NOT EXISTS idx_responses_project ON responses(project_id);

CREATE TABLE IF NOT EXISTS validations (
    id SERIAL PRIMARY KEY,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    device_id INTEGER NOT NULL REFERENCES devices(id),
    subtracker_id INTEGER REFERENCES subtrackers(id) ON DELETE CASCADE,
    worker_id INTEGER NOT NULL REFERENCES workers(id),
    start_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    end_date TIMESTAMP,
    status VARCHAR(20) NOT NULL DEFAULT 'in_progress',
    validation_result VARCHAR(100),
    comments TEXT,
    validated_by VARCHAR(100)
);

CREATE INDEX IF NOT EXISTS idx_validations_project ON validations(project_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS devices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS question_blocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    description TEXT
);

CREATE TABLE IF NOT EXISTS device_question_block (
    device_id INTEGER NOT NULL REFERENCES devices(id) ON DELETE CASCADE,
    question_block_id INTEGER NOT NULL REFERENCES question_blocks(id) ON DELETE CASCADE,
    PRIMARY KEY (device_id, question_block_id)
);

CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL,
    expected_result TEXT NOT NULL,
    question_block_id INTEGER NOT NULL REFERENCES question_blocks(id) ON DELETE CASCADE,
    device_id INTEGER REFERENCES devices(id)
);

CREATE INDEX IF NOT EXISTS idx_questions_block ON questions(question_block_id);
CREATE INDEX IF NOT EXISTS idx_questions_device ON questions(device_id);

CREATE TABLE IF NOT EXISTS workers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subtrackers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    UNIQUE (project_id, name)
);

CREATE TABLE IF NOT EXISTS devices_subtrackers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    device_id INTEGER NOT NULL REFERENCES devices(id),
    subtracker_id INTEGER NOT NULL REFERENCES subtrackers(id) ON DELETE CASCADE,
    UNIQUE (device_id, subtracker_id)
);

CREATE TABLE IF NOT EXISTS responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER REFERENCES questions(id),
    subtracker_id INTEGER REFERENCES subtrackers(id) ON DELETE CASCADE,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    device_id INTEGER REFERENCES devices(id),
    worker_id INTEGER REFERENCES workers(id),
    response_text TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    comments TEXT
);

-- NULL key members compare equal, so at most one row exists per full key.
DROP INDEX IF EXISTS idx_responses_key;
CREATE UNIQUE INDEX IF NOT EXISTS idx_responses_full_key
    ON responses((COALESCE(question_id, 0)), (COALESCE(subtracker_id, 0)), (COALESCE(device_id, 0)),
                 project_id, (COALESCE(worker_id, 0)));
CREATE INDEX IF NOT EXISTS idx_responses_project ON responses(project_id);

CREATE TABLE IF NOT EXISTS validations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    device_id INTEGER NOT NULL REFERENCES devices(id),
    subtracker_id INTEGER REFERENCES subtrackers(id) ON DELETE CASCADE,
    worker_id INTEGER NOT NULL REFERENCES workers(id),
    start_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    end_date TIMESTAMP,
    status TEXT NOT NULL DEFAULT 'in_progress',
    validation_result TEXT,
    comments TEXT,
    validated_by TEXT
);

CREATE INDEX IF NOT EXISTS idx_validations_project ON validations(project_id);
`
