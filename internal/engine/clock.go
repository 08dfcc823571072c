/*
PURPOSE:
  Time source for the engine.

IMPLEMENTATION RULES:
  - No engine code calls time.Sleep directly.
*/

package engine

import (
	"context"
	"time"
)

// Clock is the engine's only source of time. Every fixed wait of the
// session goes through Sleep so it can be cancelled.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
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
