package credstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// defaultBusyTimeoutMS is the SQLite busy_timeout in milliseconds.
const defaultBusyTimeoutMS = 5000

// SQLiteStore is the on-device Store backed by an embedded SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// Open initializes the credential database at path, applying pragmas and
// pending migrations. Pass ":memory:" for an ephemeral store in tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", normalizeDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open credential db: %w", err)
	}

	// One connection: the store is tiny and a single writer sidesteps
	// SQLITE_BUSY under concurrent session updates.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeoutMS),
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA journal_mode=WAL",
	}
	for _, pragma := range pragmas {
		if err := busyRetry(func() error {
			_, err := db.ExecContext(context.Background(), pragma)
			return err
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	if err := busyRetry(func() error { return runMigrations(db) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Get returns the value for key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get credential %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return busyRetry(func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO credentials (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at`,
			key, value)
		if err != nil {
			return fmt.Errorf("set credential %q: %w", key, err)
		}
		return nil
	})
}

// Remove deletes key. Removing an absent key is not an error.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return busyRetry(func() error {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM credentials WHERE key = ?`, key)
		if err != nil {
			return fmt.Errorf("remove credential %q: %w", key, err)
		}
		return nil
	})
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetVerbose(false)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return goose.Up(db, "migrations")
}

// busyRetry re-attempts transient SQLite contention errors. Error detection
// relies on modernc.org/sqlite error message strings; baseline v1.45+.
func busyRetry(operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.RandomizationFactor = 0.1

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		errStr := err.Error()
		if strings.Contains(errStr, "database is locked") ||
			strings.Contains(errStr, "SQLITE_BUSY") {
			return err
		}
		return backoff.Permanent(err)
	}, b)
}

func normalizeDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	if path == ":memory:" {
		return "file::memory:?cache=shared"
	}
	// mode=rwc => read/write/create. Without this, some environments open read-only.
	return "file:" + path + "?mode=rwc"
}
