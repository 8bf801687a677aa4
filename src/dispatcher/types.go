package dispatcher

import (
	"errors"

	"shaftsim/src/elev"
	"shaftsim/src/types"
)

var (
	ErrNoEligibleCar = errors.New("no car reaches floor")
	ErrMissingCar    = errors.New("shaft has no car")
)

// Car is the view of a car the dispatcher works with.
type Car interface {
	Label() string
	Snapshot() elev.CarState
	AddStop(floor int) error
}

// verdict tells Assign whether a cost can be compared or decides the call on its own.
type verdict int

const (
	costed verdict = iota
	immediate
	covered
)

// Assignment is the outcome of one dispatch decision.
type Assignment struct {
	Order   types.HallOrder
	Shaft   string
	Cost    int
	Covered bool // the car already had the floor as a stop
}
