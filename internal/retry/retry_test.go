package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExponentialDelay(t *testing.T) {
	base := 100 * time.Millisecond

	if got := ExponentialDelay(base, 0, 1); got != 100*time.Millisecond {
		t.Fatalf("attempt 1 = %v, want 100ms", got)
	}
	if got := ExponentialDelay(base, 0, 3); got != 400*time.Millisecond {
		t.Fatalf("attempt 3 = %v, want 400ms", got)
	}
	if got := ExponentialDelay(base, 250*time.Millisecond, 3); got != 250*time.Millisecond {
		t.Fatalf("capped delay = %v, want 250ms", got)
	}
	if got := ExponentialDelay(0, 0, 3); got != 0 {
		t.Fatalf("zero base delay = %v, want 0", got)
	}
}

func TestDoStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 5, Base: time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return errors.New("busy")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 2, Base: time.Millisecond}, func() error {
		calls++
		return errors.New("busy")
	})
	if err == nil || calls != 2 {
		t.Fatalf("err = %v calls = %d, want error after 2 calls", err, calls)
	}
}

func TestDoStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 10, Base: time.Hour}, func() error {
		calls++
		cancel()
		return errors.New("busy")
	})
	if err == nil || calls != 1 {
		t.Fatalf("err = %v calls = %d, want one call", err, calls)
	}
}
