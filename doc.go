// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the fabval API server.

fabval pulls issues from a Redmine instance and turns them into a
manufacturing validation workload: every issue whose tracker names a known
device ("P_" prefix) becomes a subtracker of the project, linked to the
device, with one pending response per applicable question for the worker
who synchronized.

# Starting the Server

	DATABASE_URL=postgres://... go run .

Or against a local SQLite file with a seeded catalog:

	go run . -t sqlite -d file:fabval.db --seed catalog.yaml

# Configuration

  - PORT (-p): Server port (default 5001)
  - DATABASE_URL (-d): connection string, or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD
  - DATABASE_TYPE (-t): postgres or sqlite
  - ALLOWED_ORIGIN (--allowed-origin): CORS origin of the frontend
  - SEED_FILE (--seed): YAML catalog of devices, blocks and questions
  - REDMINE_PAGE_SIZE, REDMINE_TIMEOUT: fetch tuning

A .env file in the working directory is read first.

Set FABVAL_OTEL_ENABLED=true to export traces (and FABVAL_OTEL_STDOUT=true for
metrics) to stderr.

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - syncer: the synchronization pipeline
  - redmine: paginated issue client
  - grouping: project → tracker → subject grouping
  - store: repositories and transactions
  - db: connections, schema and catalog files
  - models: Request/response and domain types
  - telemetry: OpenTelemetry setup
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
