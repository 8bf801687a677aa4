package types

import "fmt"

type MotorDirection int

const (
	MD_Up   MotorDirection = 1
	MD_Down MotorDirection = -1
	MD_Stop MotorDirection = 0
)

func (d MotorDirection) String() string {
	switch d {
	case MD_Up:
		return "up"
	case MD_Down:
		return "down"
	default:
		return "idle"
	}
}

// Hall returns the call button serving travel in d. Only valid for MD_Up and MD_Down.
func (d MotorDirection) Hall() HallType {
	if d == MD_Down {
		return HallDown
	}
	return HallUp
}

type HallType int

const (
	HallUp HallType = iota
	HallDown
)

func (h HallType) Dir() MotorDirection {
	if h == HallDown {
		return MD_Down
	}
	return MD_Up
}

func (h HallType) Opposite() HallType {
	return 1 - h
}

func (h HallType) String() string {
	return h.Dir().String()
}

// HallOrder is a call: a floor and the travel direction requested there.
type HallOrder struct {
	Floor  int
	Button HallType
}

func (o HallOrder) String() string {
	if o.Button == HallDown {
		return fmt.Sprintf("HallDown(%d)", o.Floor)
	}
	return fmt.Sprintf("HallUp(%d)", o.Floor)
}

type ElevBehaviour int

const (
	Idle ElevBehaviour = iota
	Moving
	Arrived
	DoorOpening
	Loading
	DoorClosing
)

func (b ElevBehaviour) String() string {
	switch b {
	case Idle:
		return "IDLE"
	case Moving:
		return "MOVING"
	case Arrived:
		return "ARRIVED"
	case DoorOpening:
		return "DOORS_OPENING"
	case Loading:
		return "LOADING"
	case DoorClosing:
		return "DOORS_CLOSING"
	}
	return "UNKNOWN"
}

type DoorState int

const (
	DoorClosed DoorState = iota
	DoorOpen
)
