// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/danielhkuo/fabval/db"
	"github.com/danielhkuo/fabval/telemetry"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("not found")

// IntegrityError wraps a constraint violation raised by the database.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity violation: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// wrapDBError adds operation context, maps sql.ErrNoRows to ErrNotFound and
// constraint violations to *IntegrityError.
func wrapDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if db.IsIntegrityViolation(err) {
		return &IntegrityError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs every repository operation against a DBTX. Bound to a
// transaction it is the unit of work handed out by RunInTx.
type Queries struct {
	db DBTX
}

// Store owns the connection pool and hands out units of work.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

func New(conn *sql.DB) *Store {
	return &Store{db: conn, tracer: telemetry.Tracer(telemetry.ScopeName + "/store")}
}

// Queries returns a non-transactional view for reads and single statements.
func (s *Store) Queries() *Queries {
	return &Queries{db: s.db}
}

// Ping verifies the database answers a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	return db.Ping(ctx, s.db)
}

// RunInTx executes fn inside one database transaction. fn receives the
// transaction's span context. Every write made through tx commits together
// when fn returns nil; any error (or panic) rolls all of them back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx UnitOfWork) error) (err error) {
	ctx, span := s.tracer.Start(ctx, "store.RunInTx")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, &Queries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapDBError("commit transaction", err)
	}
	return nil
}

// resolveID returns the id found by findQuery, inserting with insertQuery
// (which must end in RETURNING id) when nothing matches.
func (q *Queries) resolveID(ctx context.Context, entity, findQuery string, findArgs []any, insertQuery string, insertArgs []any) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, findQuery, findArgs...).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, wrapDBError("find "+entity, err)
	}

	if err := q.db.QueryRowContext(ctx, insertQuery, insertArgs...).Scan(&id); err != nil {
		return 0, wrapDBError("insert "+entity, err)
	}
	return id, nil
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}
