// Package timer provides the suspension points of the simulation: travel, door and
// boarding delays. Every wait ends early when its context is done.
package timer

import (
	"context"
	"time"
)

// Wait suspends for d. A non-positive d returns immediately.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer stopTimer(t)
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Travel suspends for the time a car needs to cover floors at perFloor each.
func Travel(ctx context.Context, perFloor time.Duration, floors int) error {
	if floors < 0 {
		floors = -floors
	}
	return Wait(ctx, perFloor*time.Duration(floors))
}

// Stops the timer and drains a pending tick.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
