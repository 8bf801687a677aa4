// Package executor runs the passenger exchange while a car's doors are open.
package executor

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"shaftsim/src/config"
	"shaftsim/src/eventlog"
	"shaftsim/src/ledger"
	"shaftsim/src/timer"
	"shaftsim/src/types"
)

// Cabin is the part of a car the coordinator works on. Each method is applied atomically
// with respect to the car's other state changes.
type Cabin interface {
	Label() string
	Reaches(floor int) bool
	// ClearStop drops floor from the pending stops and returns the recomputed direction.
	ClearStop(floor int) types.MotorDirection
	SetDirection(dir types.MotorDirection)
	// Alight removes one passenger destined for floor, if any.
	Alight(floor int) (*types.Passenger, bool)
	// Board moves the passenger returned by take into the manifest and registers its
	// destination as a stop. take is only called while the car has room.
	Board(take func() (*types.Passenger, bool)) (*types.Passenger, bool)
}

// Coordinator moves passengers through a car door with at most Slots flows at a time.
type Coordinator struct {
	ledger *ledger.Ledger
	sink   eventlog.Sink
	slots  int
	walk   time.Duration
}

func NewCoordinator(l *ledger.Ledger, sink eventlog.Sink, cfg config.Config) *Coordinator {
	return &Coordinator{ledger: l, sink: sink, slots: cfg.DoorSlots, walk: cfg.BoardDuration}
}

// Exchange runs once per arrival: it clears the stop, lets everyone bound for floor off,
// then loads the waiting list matching the car's direction. It returns the direction the
// car loaded for, MD_Stop if it had none and nobody was waiting.
func (c *Coordinator) Exchange(ctx context.Context, cabin Cabin, floor int) (types.MotorDirection, error) {
	dir := cabin.ClearStop(floor)

	err := c.flow(ctx, func() bool {
		p, ok := cabin.Alight(floor)
		if !ok {
			return false
		}
		c.sink.Emit(eventlog.AlightedEvent{
			Meta: eventlog.Stamp(cabin.Label()), Floor: floor,
			Passenger: p.ID, Name: p.Label(), Trip: p.TripTime(),
		})
		return true
	})
	if err != nil {
		return dir, err
	}

	if dir == types.MD_Stop {
		hall, ok := c.ledger.Prefer(floor, cabin.Reaches)
		if !ok {
			return dir, nil
		}
		dir = hall.Dir()
		cabin.SetDirection(dir)
		slog.Debug("Direction locked for loading", "shaft", cabin.Label(), "floor", floor, "dir", dir)
	}

	hall := dir.Hall()
	take := func() (*types.Passenger, bool) {
		return c.ledger.Take(floor, hall, cabin.Reaches)
	}
	err = c.flow(ctx, func() bool {
		p, ok := cabin.Board(take)
		if !ok {
			return false
		}
		c.sink.Emit(eventlog.BoardedEvent{
			Meta: eventlog.Stamp(cabin.Label()), Floor: floor,
			Passenger: p.ID, Name: p.Label(), Direction: dir,
		})
		return true
	})
	return dir, err
}

// flow runs step on up to c.slots goroutines until step reports nothing left. Each
// successful step holds its slot for the walk time.
func (c *Coordinator) flow(ctx context.Context, step func() bool) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.slots)
	for range c.slots {
		g.Go(func() error {
			for step() {
				if err := timer.Wait(ctx, c.walk); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
