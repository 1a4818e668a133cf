package pipeline

import (
	"context"
	"sync"
	"time"
)

// RateLimiter serializes calls to a provider so that consecutive calls are at
// least a fixed interval apart, regardless of how many workers share it.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter returns a limiter enforcing the given minimum interval
// between calls. A zero or negative interval disables the wait.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until the interval has elapsed since the previous call
// returned, then records the current time as the new reference point. The
// lock is held for the duration of the sleep so concurrent callers queue up
// one interval apart. Wait returns early with the context's error if ctx is
// cancelled.
func (l *RateLimiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() && l.interval > 0 {
		if remaining := l.interval - time.Since(l.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	l.last = time.Now()
	return nil
}
