// Package readloop turns the provider's record-by-record read primitive
// into clean record iteration. It interprets the four read outcomes -
// payload, file boundary, download pending, end of stream - applying a
// growing capped backoff while downloads are pending and surfacing hard
// errors as terminal.
package readloop

import (
	"context"
	"time"

	"github.com/keibahub/jvgate/internal/configuration"
)

// Backoff computes the retry delay for consecutive download-pending
// results. Each call to Next grows the delay by the multiplier up to the
// cap; Reset returns to the base interval. Not safe for concurrent use;
// each iterator owns its own instance.
type Backoff struct {
	cfg     configuration.BackoffConfig
	current time.Duration
}

// NewBackoff creates a backoff starting at the configured base interval.
func NewBackoff(cfg configuration.BackoffConfig) *Backoff {
	return &Backoff{cfg: cfg}
}

// Next returns the delay to wait before the following retry and
// advances the internal state.
func (b *Backoff) Next() time.Duration {
	if b.current == 0 {
		b.current = b.cfg.BaseInterval
		if b.current <= 0 {
			b.current = time.Millisecond // floor to avoid hot-looping
		}
		return b.current
	}

	next := time.Duration(float64(b.current) * b.cfg.Multiplier)
	if next > b.cfg.MaxInterval {
		next = b.cfg.MaxInterval
	}
	if next < b.current {
		next = b.current // multiplier below 1.0 must not shrink the delay
	}
	b.current = next
	return b.current
}

// Reset returns the backoff to its initial state. Called after any
// outcome other than download-pending.
func (b *Backoff) Reset() {
	b.current = 0
}

// sleep waits for d or until the context is cancelled, whichever comes
// first. Reports false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
