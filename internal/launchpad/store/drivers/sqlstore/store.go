package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
)

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn binds a *sql.DB or *sql.Tx to a dialect.
type conn struct {
	q queryer
	d Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := c.q.ExecContext(ctx, c.d.Rebind(query), args...)
	return res, c.mapErr(err)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case c.d.IsUniqueViolation(err):
		return store.ErrAlreadyExists
	}
	return err
}

// execOne runs an UPDATE/DELETE that must hit exactly one row.
func (c conn) execOne(ctx context.Context, query string, args ...any) error {
	res, err := c.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Store implements store.Store on top of database/sql.
type Store struct {
	db      *sql.DB
	c       conn
	migrate func(*sql.DB) error
}

// New wraps an open database. migrate applies the driver's embedded schema.
func New(db *sql.DB, d Dialect, migrate func(*sql.DB) error) *Store {
	return &Store{db: db, c: conn{q: db, d: d}, migrate: migrate}
}

// DB exposes the underlying handle, mostly for tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) ApplyMigrations() error {
	if s.migrate == nil {
		return nil
	}
	return s.migrate(s.db)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, c: conn{q: tx, d: s.c.d}}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users           { return usersRepo{s.c} }
func (s *Store) Startups() store.Startups     { return startupsRepo{s.c} }
func (s *Store) Access() store.Access         { return accessRepo{s.c} }
func (s *Store) Invites() store.Invites       { return invitesRepo{s.c} }
func (s *Store) Trackers() store.Trackers     { return trackersRepo{s.c} }
func (s *Store) Milestones() store.Milestones { return milestonesRepo{s.c} }
func (s *Store) Feedback() store.Feedback     { return feedbackRepo{s.c} }

type txStore struct {
	tx *sql.Tx
	c  conn
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the outer DB stays open.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// ApplyMigrations is a no-op; migrations run before any tx is started.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Users() store.Users           { return usersRepo{t.c} }
func (t *txStore) Startups() store.Startups     { return startupsRepo{t.c} }
func (t *txStore) Access() store.Access         { return accessRepo{t.c} }
func (t *txStore) Invites() store.Invites       { return invitesRepo{t.c} }
func (t *txStore) Trackers() store.Trackers     { return trackersRepo{t.c} }
func (t *txStore) Milestones() store.Milestones { return milestonesRepo{t.c} }
func (t *txStore) Feedback() store.Feedback     { return feedbackRepo{t.c} }

// Timestamps are stored as unix milliseconds so both dialects compare them
// the same way.
func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func toNullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*t), Valid: true}
}

func fromNullMillis(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

type scanner interface {
	Scan(dest ...any) error
}

// collect scans every row with fn.
func collect[T any](rows *sql.Rows, fn func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := fn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
