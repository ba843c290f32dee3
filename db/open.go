// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// connectMaxElapsed bounds how long Open waits for the database to accept
// connections (containers often start the API before Postgres is ready).
const connectMaxElapsed = 30 * time.Second

// Open connects to the database and waits until it answers a ping.
func Open(ctx context.Context, dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypePostgres:
		driver = "postgres"
	case TypeSQLite:
		driver = "sqlite"
		url = withSQLitePragmas(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}

	// SQLite allows a single writer; one connection keeps transactions from
	// tripping over SQLITE_BUSY.
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = connectMaxElapsed
	err = backoff.RetryNotify(func() error {
		return conn.PingContext(ctx)
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		slog.Warn("database not ready, retrying", "error", err, "retry_in", next)
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}

	return conn, nil
}

// withSQLitePragmas turns on foreign keys and a busy timeout unless the DSN
// already sets pragmas.
func withSQLitePragmas(url string) string {
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// IsIntegrityViolation reports whether err is a constraint violation
// (unique, foreign key, not null, check) from either supported driver.
func IsIntegrityViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}

	return false
}

// Ping runs a trivial query to verify the connection is usable.
func Ping(ctx context.Context, conn *sql.DB) error {
	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("unexpected probe result %d", one)
	}
	return nil
}
