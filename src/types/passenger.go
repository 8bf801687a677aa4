package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrSameFloor = errors.New("origin equals destination")

// Passenger is created waiting at Origin and completes its trip on alighting at Dest.
type Passenger struct {
	ID     uuid.UUID
	Name   string
	Origin int
	Dest   int
	Start  time.Time
}

func NewPassenger(origin, dest int, name string) (*Passenger, error) {
	if origin == dest {
		return nil, fmt.Errorf("passenger %q at floor %d: %w", name, origin, ErrSameFloor)
	}
	return &Passenger{
		ID:     uuid.New(),
		Name:   name,
		Origin: origin,
		Dest:   dest,
		Start:  time.Now(),
	}, nil
}

func (p *Passenger) Dir() MotorDirection {
	if p.Dest > p.Origin {
		return MD_Up
	}
	return MD_Down
}

func (p *Passenger) Hall() HallType {
	return p.Dir().Hall()
}

// Label is the name if one was given, otherwise a short form of the ID.
func (p *Passenger) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID.String()[:8]
}

func (p *Passenger) TripTime() time.Duration {
	return time.Since(p.Start)
}
