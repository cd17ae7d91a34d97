package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const dbFileName = "project_outlines.db"

// Store is the hierarchical outline store. It is the only component that writes
// to the outline tables, and every exported mutation runs in a single transaction.
type Store struct {
	db   *sql.DB
	path string

	now func() time.Time
}

// Open opens (creating if needed) the outline database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, PersistenceError{Op: "open", Err: err}
		}
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, PersistenceError{Op: "open", Err: err}
	}
	// One connection: pragmas are per-connection and the app is single-writer anyway.
	db.SetMaxOpenConns(1)

	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked"
	// when a second process has the file open.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, PersistenceError{Op: "open", Err: err}
		}
	}

	s := &Store{db: db, path: path, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, PersistenceError{Op: "migrate", Err: err}
	}
	return s, nil
}

// DatabasePath returns the default database file location under dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, dbFileName)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// withTx runs fn inside one transaction. Any error rolls the whole transaction back.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return PersistenceError{Op: op, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return classify(op, err)
	}
	if err := tx.Commit(); err != nil {
		return PersistenceError{Op: op, Err: err}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const timeLayout = "2006-01-02 15:04:05.000"

func (s *Store) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

// dbTime scans timestamps written either by this package or by SQLite's
// CURRENT_TIMESTAMP default.
type dbTime struct{ t time.Time }

func (d *dbTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		d.t = time.Time{}
	case time.Time:
		d.t = x.UTC()
	case int64:
		d.t = time.UnixMilli(x).UTC()
	case []byte:
		d.t = parseDBTime(string(x))
	case string:
		d.t = parseDBTime(x)
	}
	return nil
}

func parseDBTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
