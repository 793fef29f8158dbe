package refresh

import (
	"context"
	"time"
)

// Clock is the time source used for UX delays, swappable in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// HoldFor blocks until at least min has passed since started, so a refresh
// indicator stays perceptible on fast networks. It returns early with the
// context error if ctx ends first.
func HoldFor(ctx context.Context, c Clock, started time.Time, min time.Duration) error {
	if c == nil {
		c = SystemClock{}
	}
	remaining := min - c.Now().Sub(started)
	if remaining <= 0 {
		return nil
	}
	select {
	case <-c.After(remaining):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
