// Package topology holds the static building layout: which floors exist and which
// floors each shaft's car can reach.
package topology

import (
	"errors"
	"fmt"
	"slices"

	"shaftsim/src/config"
	"shaftsim/src/types"
)

var (
	ErrNoFloors       = errors.New("shaft reaches no floors")
	ErrDuplicateShaft = errors.New("duplicate shaft label")
	ErrUnknownShaft   = errors.New("unknown shaft")
)

type shaft struct {
	label  string
	floors []int
	set    map[int]struct{}
}

// Topology is immutable after New and safe for concurrent reads.
type Topology struct {
	shafts []shaft
	index  map[string]int
	floors []int
}

func New(shafts []config.Shaft) (*Topology, error) {
	if len(shafts) == 0 {
		return nil, ErrNoFloors
	}
	topo := &Topology{index: make(map[string]int, len(shafts))}
	union := map[int]struct{}{}
	for _, s := range shafts {
		if _, dup := topo.index[s.Label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateShaft, s.Label)
		}
		floors := slices.Clone(s.Floors)
		slices.Sort(floors)
		floors = slices.Compact(floors)
		if len(floors) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoFloors, s.Label)
		}
		set := make(map[int]struct{}, len(floors))
		for _, f := range floors {
			set[f] = struct{}{}
			union[f] = struct{}{}
		}
		topo.index[s.Label] = len(topo.shafts)
		topo.shafts = append(topo.shafts, shaft{label: s.Label, floors: floors, set: set})
	}
	for f := range union {
		topo.floors = append(topo.floors, f)
	}
	slices.Sort(topo.floors)
	return topo, nil
}

// Floors returns every floor reachable by at least one car, ascending.
func (topo *Topology) Floors() []int { return slices.Clone(topo.floors) }

func (topo *Topology) Bottom() int { return topo.floors[0] }

func (topo *Topology) Top() int { return topo.floors[len(topo.floors)-1] }

func (topo *Topology) HasFloor(floor int) bool {
	_, ok := slices.BinarySearch(topo.floors, floor)
	return ok
}

// HasButton reports whether floor has a call button for hall. The top floor has no up
// button and the bottom floor no down button.
func (topo *Topology) HasButton(floor int, hall types.HallType) bool {
	if !topo.HasFloor(floor) {
		return false
	}
	if hall == types.HallUp {
		return floor != topo.Top()
	}
	return floor != topo.Bottom()
}

// Labels returns shaft labels in creation order, which is the broker's tie-break order.
func (topo *Topology) Labels() []string {
	labels := make([]string, len(topo.shafts))
	for i, s := range topo.shafts {
		labels[i] = s.label
	}
	return labels
}

func (topo *Topology) shaft(label string) shaft {
	i, ok := topo.index[label]
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownShaft, label))
	}
	return topo.shafts[i]
}

func (topo *Topology) Reaches(label string, floor int) bool {
	_, ok := topo.shaft(label).set[floor]
	return ok
}

// Reach returns the ascending floors reachable by label's car.
func (topo *Topology) Reach(label string) []int { return slices.Clone(topo.shaft(label).floors) }

// Terminal is the last reachable floor in dir for label's car.
func (topo *Topology) Terminal(label string, dir types.MotorDirection) int {
	floors := topo.shaft(label).floors
	if dir == types.MD_Down {
		return floors[0]
	}
	return floors[len(floors)-1]
}

// Span is the distance between label's lowest and highest reachable floors.
func (topo *Topology) Span(label string) int {
	return topo.Terminal(label, types.MD_Up) - topo.Terminal(label, types.MD_Down)
}

// Next returns the adjacent reachable floor from floor in dir, or false at the boundary.
func (topo *Topology) Next(label string, floor int, dir types.MotorDirection) (int, bool) {
	floors := topo.shaft(label).floors
	i, found := slices.BinarySearch(floors, floor)
	switch dir {
	case types.MD_Up:
		if found {
			i++
		}
		if i < len(floors) {
			return floors[i], true
		}
	case types.MD_Down:
		if i > 0 {
			return floors[i-1], true
		}
	}
	return floor, false
}

// Eligible lists, in tie-break order, the shafts whose car reaches floor.
func (topo *Topology) Eligible(floor int) []string {
	var labels []string
	for _, s := range topo.shafts {
		if _, ok := s.set[floor]; ok {
			labels = append(labels, s.label)
		}
	}
	return labels
}

// Routable reports whether a single car can carry a passenger from origin to dest.
func (topo *Topology) Routable(origin, dest int) bool {
	for _, s := range topo.shafts {
		_, a := s.set[origin]
		_, b := s.set[dest]
		if a && b {
			return true
		}
	}
	return false
}
