// Package session persists the logged-in story across runs.
//
// The record is stored under a single key with a fixed expiry. Loading is
// atomic and self-healing: anything that cannot be fully reconstructed is
// deleted and reported as no session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/codec"
	"github.com/rcliao/baby-bitcoin/internal/model"
	"github.com/rcliao/baby-bitcoin/internal/store"
)

const (
	// Key is the record key for the stored session.
	Key = "storySession"
	// DefaultTTL is how long a saved session stays valid.
	DefaultTTL = 7 * 24 * time.Hour
)

// ErrNoSession is returned by Load when no usable session is stored.
var ErrNoSession = errors.New("no session")

// record is the persisted shape of a session.
type record struct {
	SelectedAnimalID  string   `json:"selectedAnimalId"`
	SelectedPlaceID   string   `json:"selectedPlaceId"`
	SelectedObjectID  string   `json:"selectedObjectId"`
	PrivateKey        string   `json:"privateKey"`
	PublicKeyFruitIDs []string `json:"publicKeyFruitIds"`
}

// Store saves, loads and clears the session record.
type Store struct {
	records  store.Records
	catalogs catalog.Set
	ttl      time.Duration
	log      *slog.Logger
}

// NewStore creates a session store. A zero ttl uses DefaultTTL and a nil
// logger uses slog.Default().
func NewStore(records store.Records, catalogs catalog.Set, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{records: records, catalogs: catalogs, ttl: ttl, log: logger}
}

// Save writes the session, replacing any existing one.
func (s *Store) Save(ctx context.Context, sess model.Session) error {
	ids := sess.Address.IDs()
	b, err := json.Marshal(record{
		SelectedAnimalID:  sess.Animal.ID,
		SelectedPlaceID:   sess.Place.ID,
		SelectedObjectID:  sess.Object.ID,
		PrivateKey:        codec.FormatSecret(sess.Secret),
		PublicKeyFruitIDs: ids[:],
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.records.Set(ctx, Key, string(b), s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load restores the session. It returns ErrNoSession when nothing usable is
// stored; a corrupt or unresolvable record is deleted first.
func (s *Store) Load(ctx context.Context) (*model.Session, error) {
	r, err := s.records.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess, err := s.decode(r.Value)
	if err != nil {
		s.log.Warn("discarding stored session", "error", err)
		if delErr := s.records.Delete(ctx, Key); delErr != nil {
			s.log.Error("delete corrupt session", "error", delErr)
		}
		return nil, ErrNoSession
	}
	return sess, nil
}

// Clear removes the stored session regardless of expiry.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.records.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) decode(raw string) (*model.Session, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if rec.PrivateKey == "" {
		return nil, errors.New("missing privateKey")
	}
	if len(rec.PublicKeyFruitIDs) != 3 {
		return nil, fmt.Errorf("publicKeyFruitIds has %d entries, want 3", len(rec.PublicKeyFruitIDs))
	}

	animal, ok := s.catalogs.Animals.FindByID(rec.SelectedAnimalID)
	if !ok {
		return nil, fmt.Errorf("unknown animal %q", rec.SelectedAnimalID)
	}
	place, ok := s.catalogs.Places.FindByID(rec.SelectedPlaceID)
	if !ok {
		return nil, fmt.Errorf("unknown place %q", rec.SelectedPlaceID)
	}
	object, ok := s.catalogs.Objects.FindByID(rec.SelectedObjectID)
	if !ok {
		return nil, fmt.Errorf("unknown object %q", rec.SelectedObjectID)
	}

	secret, err := codec.ParseSecret(rec.PrivateKey)
	if err != nil {
		return nil, err
	}
	addr, err := codec.ReconstructAddress(s.catalogs.Fruits,
		[3]string{rec.PublicKeyFruitIDs[0], rec.PublicKeyFruitIDs[1], rec.PublicKeyFruitIDs[2]})
	if err != nil {
		return nil, err
	}

	return &model.Session{
		Animal:  animal,
		Place:   place,
		Object:  object,
		Secret:  secret,
		Address: addr,
	}, nil
}
