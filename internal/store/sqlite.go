package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so stored timestamps compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Records using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithClock overrides the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		expires_at TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_records_expires ON records(expires_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	now := s.now().UTC()

	var r Record
	var updatedAt string
	var expiresAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at, expires_at FROM records WHERE key = ?`, key).
		Scan(&r.Key, &r.Value, &updatedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	r.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	if expiresAt.Valid {
		t, err := time.Parse(timeLayout, expiresAt.String)
		if err != nil || !t.After(now) {
			// Expired records are purged on read.
			s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
			return nil, fmt.Errorf("%w: %s (expired)", ErrNotFound, key)
		}
		r.ExpiresAt = &t
	}

	return &r, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	now := s.now().UTC()

	var expiresAt *string
	if ttl > 0 {
		exp := now.Add(ttl).Format(timeLayout)
		expiresAt = &exp
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (key, value, updated_at, expires_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value,
		   updated_at = excluded.updated_at, expires_at = excluded.expires_at`,
		key, value, now.Format(timeLayout), expiresAt)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Purge removes every expired record and reports how many were dropped.
func (s *SQLiteStore) Purge(ctx context.Context) (int, error) {
	now := s.now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE expires_at IS NOT NULL AND expires_at <= ?`, now)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var ttlRegex = regexp.MustCompile(`^(\d+)([dhms])$`)

// ParseTTL parses a TTL string like "7d", "24h", "30m" into a time.Duration.
func ParseTTL(s string) (time.Duration, error) {
	m := ttlRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid format %q (use e.g. 7d, 24h, 30m, 60s)", s)
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "d":
		return time.Duration(n) * 24 * time.Hour, nil
	case "h":
		return time.Duration(n) * time.Hour, nil
	case "m":
		return time.Duration(n) * time.Minute, nil
	case "s":
		return time.Duration(n) * time.Second, nil
	}
	return 0, fmt.Errorf("unknown unit %q", m[2])
}
