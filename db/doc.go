// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation and reference-data catalogs.

# Connecting

Open picks the driver from the database type and waits (with exponential
backoff, up to 30s) for the server to answer:

	conn, err := db.Open(ctx, db.TypePostgres, cfg.DatabaseURL)

Supported types are TypePostgres (lib/pq) and TypeSQLite (modernc.org/sqlite).
SQLite connections get foreign keys and a busy timeout enabled.

# Schema Creation

CreateSchema initializes all required tables for the given dialect:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - projects: tracker projects, unique by name
  - devices: one per tracker name, seeded out-of-band
  - question_blocks: named sets of questions
  - device_question_block: links devices to blocks
  - questions: question text and expected result
  - workers: people running validations, unique by name
  - subtrackers: one per issue subject, unique per project
  - devices_subtrackers: links devices to subtrackers
  - responses: one per (question, subtracker, device, project, worker)
  - validations: validation sessions per project/device/worker

# Relationships

	projects 1──* subtrackers
	devices *──* question_blocks (via device_question_block)
	devices *──* subtrackers (via devices_subtrackers)
	question_blocks 1──* questions
	questions 1──* responses

# Integrity Errors

IsIntegrityViolation classifies constraint violations from both drivers
(Postgres SQLSTATE class 23, SQLITE_CONSTRAINT).

# Catalogs

LoadCatalog parses a YAML file of devices and question blocks. The store
package applies it idempotently.
*/
package db
