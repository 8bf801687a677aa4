package elev

import (
	"context"
	"fmt"
	"log/slog"

	"shaftsim/src/eventlog"
	"shaftsim/src/timer"
	"shaftsim/src/types"
)

// Run drives the car until ctx is done: wait while idle, otherwise pick a direction,
// travel to the next stop and serve it.
func (c *Car) Run(ctx context.Context) error {
	slog.Info("Car started", "shaft", c.label, "floor", c.Snapshot().Floor, "reach", c.reach)
	for {
		if c.Snapshot().Idle() {
			if err := c.idle(ctx); err != nil {
				return err
			}
			continue
		}
		c.updateDirection()
		if err := c.travel(ctx); err != nil {
			return err
		}
		if err := c.serve(ctx); err != nil {
			return err
		}
	}
}

func (c *Car) idle(ctx context.Context) error {
	var (
		entered bool
		floor   int
	)
	c.mgr.Do(func(elevator *ElevState) {
		entered = elevator.Behaviour != types.Idle
		elevator.Behaviour = types.Idle
		elevator.Dir = types.MD_Stop
		floor = elevator.Floor
	})
	if entered {
		c.sink.Emit(eventlog.WaitingEvent{Meta: eventlog.Stamp(c.label), Floor: floor})
	}
	if err := c.flushDeferred(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.wake:
		return nil
	}
}

func (c *Car) updateDirection() types.MotorDirection {
	var dir types.MotorDirection
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Dir = chooseDirection(elevator.CarState, c.reach)
		dir = elevator.Dir
	})
	return dir
}

// travel advances one reachable floor at a time until the car is at its next stop.
// The target is re-evaluated on every floor, so stops assigned on the way are honoured,
// and a new moving event is emitted whenever it changes.
func (c *Car) travel(ctx context.Context) error {
	st := c.Snapshot()
	target := nextStop(st, c.reach)
	if target == st.Floor {
		return nil
	}
	c.setBehaviour(types.Moving)
	c.sink.Emit(eventlog.MovingEvent{Meta: eventlog.Stamp(c.label), From: st.Floor, To: target})

	departed := false
	for st.Floor != target {
		step := types.MD_Up
		if target < st.Floor {
			step = types.MD_Down
		}
		next, ok := c.topo.Next(c.label, st.Floor, step)
		if !ok {
			return nil
		}
		if err := timer.Travel(ctx, c.cfg.TravelDuration, next-st.Floor); err != nil {
			return err
		}
		c.move(next)
		if !departed {
			departed = true
			if err := c.flushDeferred(ctx); err != nil {
				return err
			}
		}

		st = c.Snapshot()
		upcoming := nextStop(st, c.reach)
		if st.Floor == upcoming || c.courtesyStop(st) {
			return nil
		}
		c.sink.Emit(eventlog.PassingEvent{Meta: eventlog.Stamp(c.label), Floor: st.Floor})
		if upcoming != target {
			target = upcoming
			c.sink.Emit(eventlog.MovingEvent{Meta: eventlog.Stamp(c.label), From: st.Floor, To: target})
		}
	}
	return nil
}

// move is the only place the car changes floor.
func (c *Car) move(floor int) {
	var doorOpen bool
	c.mgr.Do(func(elevator *ElevState) {
		if elevator.Door == types.DoorOpen {
			doorOpen = true
			return
		}
		elevator.Floor = floor
	})
	if doorOpen {
		panic(fmt.Sprintf("elev: shaft %s asked to move to floor %d with doors open", c.label, floor))
	}
}

// courtesyStop adds the current floor as a stop when someone there is waiting to travel
// the car's way and the car has room for them.
func (c *Car) courtesyStop(st CarState) bool {
	if st.Dir == types.MD_Stop || st.Full() {
		return false
	}
	hall := st.Dir.Hall()
	if !c.topo.HasButton(st.Floor, hall) || !c.ledger.HasEligible(st.Floor, hall, c.Reaches) {
		return false
	}
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Stops[elevator.Floor] = true
	})
	slog.Debug("Courtesy stop", "shaft", c.label, "floor", st.Floor, "dir", st.Dir)
	return true
}

// serve runs the door cycle at the current floor if it is a pending stop.
func (c *Car) serve(ctx context.Context) error {
	st := c.Snapshot()
	floor := st.Floor
	if !st.Stops[floor] {
		return nil
	}
	meta := func() eventlog.Meta { return eventlog.Stamp(c.label) }

	c.setBehaviour(types.Arrived)
	c.sink.Emit(eventlog.ArrivedEvent{Meta: meta(), Floor: floor})

	c.setBehaviour(types.DoorOpening)
	c.sink.Emit(eventlog.DoorsOpeningEvent{Meta: meta(), Floor: floor})
	if err := timer.Wait(ctx, c.cfg.DoorDuration); err != nil {
		return err
	}
	c.setDoor(types.DoorOpen, types.Loading)
	c.sink.Emit(eventlog.DoorsOpenEvent{Meta: meta(), Floor: floor})

	dir, err := c.coord.Exchange(ctx, c, floor)
	if err != nil {
		return err
	}
	c.settleCalls(floor, dir)

	c.setBehaviour(types.DoorClosing)
	c.sink.Emit(eventlog.DoorsClosingEvent{Meta: meta(), Floor: floor})
	if err := timer.Wait(ctx, c.cfg.DoorDuration); err != nil {
		return err
	}
	load := c.setDoor(types.DoorClosed, types.DoorClosing)
	c.sink.Emit(eventlog.DoorsClosedEvent{Meta: meta(), Floor: floor, Passengers: load})
	return nil
}

// settleCalls releases the button the car just served. Buttons with passengers still
// waiting are latched again and their calls deferred until the car has left.
func (c *Car) settleCalls(floor int, dir types.MotorDirection) {
	var deferred []types.HallOrder
	for _, hall := range []types.HallType{types.HallUp, types.HallDown} {
		if !c.topo.HasButton(floor, hall) {
			continue
		}
		order := types.HallOrder{Floor: floor, Button: hall}
		switch {
		case dir != types.MD_Stop && hall == dir.Hall():
			if c.ledger.ResetOrRelatch(floor, hall) {
				slog.Debug("Call relatched", "shaft", c.label, "order", order)
				deferred = append(deferred, order)
			}
		case c.ledger.Pressed(floor, hall):
			if c.ledger.Len(floor, hall) == 0 {
				c.ledger.Reset(floor, hall)
				continue
			}
			deferred = append(deferred, order)
		}
	}
	if len(deferred) == 0 {
		return
	}
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Deferred = append(elevator.Deferred, deferred...)
	})
}

// flushDeferred hands deferred calls back to the dispatcher, skipping any another car
// has served in the meantime.
func (c *Car) flushDeferred(ctx context.Context) error {
	var deferred []types.HallOrder
	c.mgr.Do(func(elevator *ElevState) {
		deferred, elevator.Deferred = elevator.Deferred, nil
	})
	for _, order := range deferred {
		if !c.ledger.Pressed(order.Floor, order.Button) {
			continue
		}
		if err := c.ledger.Reassert(ctx, order); err != nil {
			return err
		}
	}
	return nil
}

func (c *Car) setBehaviour(behaviour types.ElevBehaviour) {
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Behaviour = behaviour
	})
}

// setDoor changes the door and behaviour together and returns the load at that moment.
func (c *Car) setDoor(door types.DoorState, behaviour types.ElevBehaviour) int {
	var load int
	c.mgr.Do(func(elevator *ElevState) {
		elevator.Door = door
		elevator.Behaviour = behaviour
		load = elevator.Load
	})
	return load
}
