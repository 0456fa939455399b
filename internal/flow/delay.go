package flow

import (
	"context"
	"time"
)

// Delays are the settle pauses applied before a transition completes.
type Delays struct {
	Stage    time.Duration
	Login    time.Duration
	Logout   time.Duration
	Transfer time.Duration
}

// DefaultDelays returns the standard settle pauses.
func DefaultDelays() Delays {
	return Delays{
		Stage:    300 * time.Millisecond,
		Login:    500 * time.Millisecond,
		Logout:   500 * time.Millisecond,
		Transfer: time.Second,
	}
}

// Delayer waits out a settle pause. It must return ctx.Err() if the context
// ends first.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// Sleep waits on a real timer.
type Sleep struct{}

func (Sleep) Delay(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay returns immediately. Used in tests and scripted runs.
type NoDelay struct{}

func (NoDelay) Delay(ctx context.Context, _ time.Duration) error { return ctx.Err() }
