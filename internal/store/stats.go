package store

import (
	"context"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string     `json:"db_path"`
	DBSizeBytes    int64      `json:"db_size_bytes"`
	TotalRecords   int        `json:"total_records"`
	ExpiredRecords int        `json:"expired_records"`
	Keys           []KeyStats `json:"keys"`
}

// KeyStats describes one stored record.
type KeyStats struct {
	Key        string `json:"key"`
	ValueBytes int    `json:"value_bytes"`
	UpdatedAt  string `json:"updated_at"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	now := s.now().UTC().Format(timeLayout)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&st.TotalRecords)
	s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE expires_at IS NOT NULL AND expires_at <= ?`, now).
		Scan(&st.ExpiredRecords)

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, LENGTH(value), updated_at, COALESCE(expires_at, '')
		FROM records ORDER BY key`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KeyStats
		rows.Scan(&k.Key, &k.ValueBytes, &k.UpdatedAt, &k.ExpiresAt)
		k.UpdatedAt = reformat(k.UpdatedAt)
		k.ExpiresAt = reformat(k.ExpiresAt)
		st.Keys = append(st.Keys, k)
	}

	return st, rows.Err()
}

func reformat(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(timeLayout, ts)
	if err != nil {
		return ts
	}
	return t.Format(time.RFC3339)
}
