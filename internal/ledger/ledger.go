// Package ledger keeps the append-only list of banana transfers.
//
// The full sequence is persisted as one JSON array under a permanent record,
// in append order. It is independent of the session and survives logout.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/baby-bitcoin/internal/model"
	"github.com/rcliao/baby-bitcoin/internal/store"
)

// Key is the record key for the stored ledger.
const Key = "bananaTransactions"

// ErrInvalidAmount is returned when appending a non-positive amount.
var ErrInvalidAmount = errors.New("amount must be a positive number")

// Ledger is the in-memory transaction sequence backed by a record store.
type Ledger struct {
	records store.Records
	log     *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	entropy *rand.Rand
	txs     []model.Transaction
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.log = logger }
}

// Open restores the ledger from records. Malformed stored data is logged and
// yields an empty ledger; only storage failures are returned as errors.
func Open(ctx context.Context, records store.Records, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		records: records,
		log:     slog.Default(),
		now:     time.Now,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(l)
	}

	txs, err := l.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	l.txs = txs
	return l, nil
}

func (l *Ledger) loadAll(ctx context.Context) ([]model.Transaction, error) {
	r, err := l.records.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var txs []model.Transaction
	if err := json.Unmarshal([]byte(r.Value), &txs); err != nil {
		l.log.Error("failed to parse stored transactions", "error", err)
		return nil, nil
	}
	return txs, nil
}

func (l *Ledger) newID() string {
	return ulid.MustNew(ulid.Timestamp(l.now()), l.entropy).String()
}

// Append records a transfer with a fresh id and the current timestamp, then
// persists the whole sequence. The in-memory ledger is unchanged on failure.
func (l *Ledger) Append(ctx context.Context, from, to model.Address, amount float64) (model.Transaction, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return model.Transaction{}, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx := model.Transaction{
		ID:          l.newID(),
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
		Timestamp:   l.now().UTC().Format(model.TimestampLayout),
	}

	updated := make([]model.Transaction, len(l.txs), len(l.txs)+1)
	copy(updated, l.txs)
	updated = append(updated, tx)

	b, err := json.Marshal(updated)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.records.Set(ctx, Key, string(b), 0); err != nil {
		return model.Transaction{}, fmt.Errorf("save ledger: %w", err)
	}

	l.txs = updated
	return tx, nil
}

// All returns the transactions in append order.
func (l *Ledger) All() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Transaction(nil), l.txs...)
}

// Recent returns the transactions most recent first, for display.
func (l *Ledger) Recent() []model.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Transaction, len(l.txs))
	for i, tx := range l.txs {
		out[len(l.txs)-1-i] = tx
	}
	return out
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txs)
}

// Export returns the stored JSON array exactly as persisted, or "[]" when
// nothing has been stored yet.
func (l *Ledger) Export(ctx context.Context) ([]byte, error) {
	r, err := l.records.Get(ctx, Key)
	if errors.Is(err, store.ErrNotFound) {
		return []byte("[]"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("export ledger: %w", err)
	}
	return []byte(r.Value), nil
}
