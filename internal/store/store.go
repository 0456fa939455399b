// Package store provides keyed record storage and its SQLite implementation.
//
// A record is one named JSON document with an optional expiry. Session state
// lives in an expiring record, the ledger in a permanent one.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record is missing or expired.
var ErrNotFound = errors.New("record not found")

// Record is a stored value with its bookkeeping timestamps.
type Record struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedAt time.Time  `json:"updated_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Records defines keyed record storage.
type Records interface {
	// Get returns the record for key, or ErrNotFound if missing or expired.
	Get(ctx context.Context, key string) (*Record, error)

	// Set writes value under key, replacing any existing record.
	// A zero ttl means the record never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the record. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
