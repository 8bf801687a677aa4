// Package elev drives one car: its stops, direction, movement and door cycle.
package elev

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"shaftsim/src/config"
	"shaftsim/src/eventlog"
	"shaftsim/src/executor"
	"shaftsim/src/ledger"
	"shaftsim/src/topology"
	"shaftsim/src/types"
)

var ErrUnreachableStop = errors.New("stop outside the car's reach")

type Car struct {
	label  string
	reach  []int
	topo   *topology.Topology
	ledger *ledger.Ledger
	coord  *executor.Coordinator
	sink   eventlog.Sink
	cfg    config.Config
	mgr    *ElevStateMgr
	wake   chan struct{}
}

// NewCar parks the car at the lobby, or at its lowest floor if it does not serve the lobby.
func NewCar(label string, topo *topology.Topology, l *ledger.Ledger, coord *executor.Coordinator, sink eventlog.Sink, cfg config.Config) *Car {
	reach := topo.Reach(label)
	start := reach[0]
	if topo.Reaches(label, 0) {
		start = 0
	}
	elevator := &ElevState{CarState: CarState{
		Label:     label,
		Floor:     start,
		Dir:       types.MD_Stop,
		Behaviour: types.Idle,
		Door:      types.DoorClosed,
		Stops:     map[int]bool{},
		Capacity:  cfg.Capacity,
	}}
	return &Car{
		label:  label,
		reach:  reach,
		topo:   topo,
		ledger: l,
		coord:  coord,
		sink:   sink,
		cfg:    cfg,
		mgr:    StartStateMgr(elevator),
		wake:   make(chan struct{}, 1),
	}
}

func (c *Car) Label() string { return c.label }

func (c *Car) Reaches(floor int) bool { return c.topo.Reaches(c.label, floor) }

// Snapshot returns a copy of the car's current state.
func (c *Car) Snapshot() CarState { return c.mgr.GetState() }

// AddStop commits the car to visit floor and wakes it if idle. Adding a floor twice is a no-op.
func (c *Car) AddStop(floor int) error {
	if !c.Reaches(floor) {
		return fmt.Errorf("shaft %s, floor %d: %w", c.label, floor, ErrUnreachableStop)
	}
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Stops[floor] = true
	})
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Manifest returns the passengers currently on board, in boarding order.
func (c *Car) Manifest() []*types.Passenger {
	var manifest []*types.Passenger
	c.mgr.Do(func(elevator *ElevState) {
		manifest = slices.Clone(elevator.Manifest)
	})
	return manifest
}

// Stop releases the car's state manager once nothing uses the car any more.
func (c *Car) Stop() { c.mgr.Stop() }

func (c *Car) ClearStop(floor int) types.MotorDirection {
	var dir types.MotorDirection
	c.mgr.Do(func(elevator *ElevState) {
		delete(elevator.Stops, floor)
		elevator.Dir = chooseDirection(elevator.CarState, c.reach)
		dir = elevator.Dir
	})
	return dir
}

func (c *Car) SetDirection(dir types.MotorDirection) {
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Dir = dir
	})
}

func (c *Car) Alight(floor int) (p *types.Passenger, ok bool) {
	c.mgr.Do(func(elevator *ElevState) {
		if elevator.Door != types.DoorOpen {
			slog.Error("Alighting rejected, doors closed", "shaft", c.label, "floor", elevator.Floor)
			return
		}
		i := slices.IndexFunc(elevator.Manifest, func(q *types.Passenger) bool { return q.Dest == floor })
		if i < 0 {
			return
		}
		p, ok = elevator.Manifest[i], true
		elevator.Manifest = slices.Delete(elevator.Manifest, i, i+1)
		elevator.Load = len(elevator.Manifest)
	})
	return p, ok
}

func (c *Car) Board(take func() (*types.Passenger, bool)) (p *types.Passenger, ok bool) {
	c.mgr.Do(func(elevator *ElevState) {
		if elevator.Door != types.DoorOpen {
			slog.Error("Boarding rejected, doors closed", "shaft", c.label, "floor", elevator.Floor)
			return
		}
		if elevator.Full() {
			return
		}
		if p, ok = take(); !ok {
			return
		}
		elevator.Manifest = append(elevator.Manifest, p)
		elevator.Load = len(elevator.Manifest)
		elevator.Stops[p.Dest] = true
	})
	return p, ok
}
