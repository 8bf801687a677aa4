// State types are defined in elev package to make method receivers possible in elev_state.go.
package elev

import (
	"shaftsim/src/types"
)

// CarState is the part of a car's state other components may look at. It holds only
// plain data so snapshots can be deep-copied.
type CarState struct {
	Label     string
	Floor     int
	Dir       types.MotorDirection
	Behaviour types.ElevBehaviour
	Door      types.DoorState
	Stops     map[int]bool
	Load      int
	Capacity  int
}

// Idle reports whether the car has no pending stops.
func (s CarState) Idle() bool { return len(s.Stops) == 0 }

func (s CarState) Full() bool { return s.Load >= s.Capacity }

// LowestStop and HighestStop must only be called when the car has stops.
func (s CarState) LowestStop() int {
	first := true
	lowest := 0
	for floor := range s.Stops {
		if first || floor < lowest {
			lowest, first = floor, false
		}
	}
	return lowest
}

func (s CarState) HighestStop() int {
	first := true
	highest := 0
	for floor := range s.Stops {
		if first || floor > highest {
			highest, first = floor, false
		}
	}
	return highest
}

// ElevState is everything a car owns. Only the state manager goroutine touches it.
type ElevState struct {
	CarState
	Manifest []*types.Passenger
	// Deferred holds calls to hand back to the dispatcher once the car has left the floor.
	Deferred []types.HallOrder
}

// ElevStateCmd is a function run by the state manager.
type ElevStateCmd struct {
	Exec func(elevator *ElevState)
	done chan struct{}
}

// ElevStateMgr owns the elevator and serializes its access.
type ElevStateMgr struct {
	Cmds chan ElevStateCmd
	quit chan struct{}
}
