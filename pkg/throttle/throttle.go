// Package throttle provides a minimal spacing limiter for outbound calls.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Throttle keeps at least Interval between consecutive calls to Wait.
// Callers are serialized: the lock is held while waiting.
type Throttle struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// New makes a new Throttle with the given interval.
func New(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if wait := t.interval - time.Since(t.last); !t.last.IsZero() && wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	t.last = time.Now()
	return nil
}

// Interval returns the configured interval.
func (t *Throttle) Interval() time.Duration { return t.interval }
