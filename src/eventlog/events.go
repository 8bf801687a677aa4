package eventlog

import (
	"time"

	"github.com/google/uuid"

	"shaftsim/src/types"
)

// Event is one step in a car's life, emitted to a Sink.
type Event interface {
	ShaftLabel() string
	isEvent()
}

// Meta is embedded in every event.
type Meta struct {
	Shaft string
	At    time.Time
}

func (m Meta) ShaftLabel() string { return m.Shaft }
func (Meta) isEvent() {}

func Stamp(shaft string) Meta { return Meta{Shaft: shaft, At: time.Now()} }

type MovingEvent struct {
	Meta
	From, To int
}

// PassingEvent is emitted for each intermediate floor on the way to a stop.
type PassingEvent struct {
	Meta
	Floor int
}

type ArrivedEvent struct {
	Meta
	Floor int
}

type DoorsOpeningEvent struct {
	Meta
	Floor int
}

type DoorsOpenEvent struct {
	Meta
	Floor int
}

type DoorsClosingEvent struct {
	Meta
	Floor int
}

type DoorsClosedEvent struct {
	Meta
	Floor      int
	Passengers int
}

type BoardedEvent struct {
	Meta
	Floor     int
	Passenger uuid.UUID
	Name      string
	Direction types.MotorDirection
}

type AlightedEvent struct {
	Meta
	Floor     int
	Passenger uuid.UUID
	Name      string
	Trip      time.Duration
}

// WaitingEvent is emitted when a car runs out of stops and goes idle.
type WaitingEvent struct {
	Meta
	Floor int
}
