package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "yogavrita/internal/platform/errors"
)

type SQLiteStore struct {
	db    *sql.DB
	quota int64
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{ store *SQLiteStore }

// OpenSQLite opens (creating if needed) the store at dbPath. quota bounds the
// total bytes of keys plus values; zero or less disables the check.
func OpenSQLite(dbPath string, quota int64) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", classify(err))
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", classify(err))
	}
	db.SetMaxOpenConns(1)
	store := &SQLiteStore{db: db, quota: quota}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", classify(err))
	}
	return nil
}

// Within runs fn in a transaction; Get, Set and Delete called with the
// context fn receives join it. A nested call reuses the outer transaction.
func (s *SQLiteStore) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{s}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", classify(err))
	}
	if err := fn(context.WithValue(ctx, txKey{s}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", classify(err))
	}
	return nil
}

func (s *SQLiteStore) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{s}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn(ctx).QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, classify(err))
	}
	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	if s.quota > 0 {
		var used int64
		err := s.conn(ctx).QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(key) + LENGTH(value)), 0) FROM kv WHERE key <> ?`, key,
		).Scan(&used)
		if err != nil {
			return fmt.Errorf("measure usage: %w", classify(err))
		}
		if used+int64(len(key))+int64(len(value)) > s.quota {
			return fmt.Errorf("set %s: %w", key, apperrors.ErrQuotaExceeded)
		}
	}
	const stmt = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
`
	if _, err := s.conn(ctx).ExecContext(ctx, stmt, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set %s: %w", key, classify(err))
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, classify(err))
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// classify folds driver and filesystem failures into the two storage errors
// callers can act on; anything else is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() & 0xff {
		case sqlite3.SQLITE_FULL:
			return errors.Join(apperrors.ErrQuotaExceeded, err)
		case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM, sqlite3.SQLITE_AUTH, sqlite3.SQLITE_CANTOPEN:
			return errors.Join(apperrors.ErrAccessDenied, err)
		}
	}
	if errors.Is(err, fs.ErrPermission) {
		return errors.Join(apperrors.ErrAccessDenied, err)
	}
	return err
}
