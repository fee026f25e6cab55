// Package retry runs flaky operations with exponential backoff.
package retry

import (
	"context"
	"time"
)

// Policy bounds a retry loop. Attempts counts the first call.
type Policy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

// ExponentialDelay returns base*2^(attempt-1), optionally capped by max.
// attempt is 1-based; values < 1 are treated as 1.
func ExponentialDelay(base, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		return 0
	}

	delay := base * (1 << uint(attempt-1))
	if max > 0 && delay > max {
		return max
	}
	return delay
}

// Do calls fn until it succeeds, the attempts run out or ctx is done. The
// last error from fn is returned.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		t := time.NewTimer(ExponentialDelay(p.Base, p.Max, i))
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
	}
	return err
}
