// Package sim assembles a building from configuration and feeds passengers into it.
package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"shaftsim/src/config"
	"shaftsim/src/dispatcher"
	"shaftsim/src/elev"
	"shaftsim/src/eventlog"
	"shaftsim/src/executor"
	"shaftsim/src/ledger"
	"shaftsim/src/topology"
	"shaftsim/src/types"
)

var (
	ErrUnknownFloor = errors.New("unknown floor")
	ErrNoRoute      = errors.New("no single car serves both floors")
)

type Building struct {
	topo       *topology.Topology
	ledger     *ledger.Ledger
	cars       []*elev.Car
	dispatcher *dispatcher.Dispatcher
	tally      *eventlog.Tally
}

// NewBuilding wires one car per configured shaft. Every car event goes to sink.
func NewBuilding(cfg config.Config, sink eventlog.Sink) (*Building, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	topo, err := topology.New(cfg.Shafts)
	if err != nil {
		return nil, fmt.Errorf("building topology: %w", err)
	}
	b := &Building{
		topo:   topo,
		ledger: ledger.New(topo, config.CallBuffer),
		tally:  eventlog.NewTally(),
	}
	sink = eventlog.Multi(sink, b.tally)
	coord := executor.NewCoordinator(b.ledger, sink, cfg)

	cars := make([]dispatcher.Car, 0, len(cfg.Shafts))
	for _, label := range topo.Labels() {
		car := elev.NewCar(label, topo, b.ledger, coord, sink, cfg)
		b.cars = append(b.cars, car)
		cars = append(cars, car)
	}
	if b.dispatcher, err = dispatcher.New(topo, b.ledger, cars); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Building) Topology() *topology.Topology { return b.topo }

// Car returns the car in shaft label, or nil.
func (b *Building) Car(label string) *elev.Car {
	for _, car := range b.cars {
		if car.Label() == label {
			return car
		}
	}
	return nil
}

// Run drives the dispatcher and every car until ctx is done or one of them fails.
func (b *Building) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.dispatcher.Run(ctx) })
	for _, car := range b.cars {
		g.Go(func() error { return car.Run(ctx) })
	}
	return g.Wait()
}

// Close releases the cars. The building must not be used after Run has returned and Close was called.
func (b *Building) Close() {
	for _, car := range b.cars {
		car.Stop()
	}
}

// Call creates a passenger at origin bound for dest and presses the call button.
// It returns ctx's error if the call cannot be handed to the dispatcher before ctx ends.
func (b *Building) Call(ctx context.Context, origin, dest int, name string) (*types.Passenger, error) {
	for _, floor := range []int{origin, dest} {
		if !b.topo.HasFloor(floor) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownFloor, floor)
		}
	}
	p, err := types.NewPassenger(origin, dest, name)
	if err != nil {
		return nil, err
	}
	if !b.topo.Routable(origin, dest) {
		return nil, fmt.Errorf("%w: %d -> %d", ErrNoRoute, origin, dest)
	}
	if err := b.ledger.Enqueue(ctx, p); err != nil {
		return nil, err
	}
	slog.Info("Passenger waiting", "passenger", p.Label(), "from", origin, "to", dest, "dir", p.Dir())
	return p, nil
}

// Settled reports whether every passenger has arrived and every car is idle.
func (b *Building) Settled() bool {
	if b.ledger.Outstanding() > 0 {
		return false
	}
	for _, car := range b.cars {
		st := car.Snapshot()
		if !st.Idle() || st.Load > 0 || st.Behaviour != types.Idle {
			return false
		}
	}
	return true
}

func (b *Building) Totals() eventlog.Totals { return b.tally.Totals() }
