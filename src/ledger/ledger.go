// Package ledger keeps the passengers waiting on each floor and the floor's latched call buttons.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"shaftsim/src/topology"
	"shaftsim/src/types"
)

var ErrNoButton = errors.New("no call button")

// floor guards one floor's buttons and waiting lists, indexed by types.HallType.
type floor struct {
	mu      sync.Mutex
	pressed [2]bool
	waiting [2][]*types.Passenger
}

// Ledger owns every waiting passenger until a car takes it. Each floor has its own lock,
// so cars working different floors never contend. Button presses that latch a call are
// published on Calls.
type Ledger struct {
	topo   *topology.Topology
	floors map[int]*floor
	calls  chan types.HallOrder
}

func New(topo *topology.Topology, buffer int) *Ledger {
	l := &Ledger{
		topo:   topo,
		floors: make(map[int]*floor),
		calls:  make(chan types.HallOrder, buffer),
	}
	for _, f := range topo.Floors() {
		l.floors[f] = &floor{}
	}
	return l
}

func (l *Ledger) Calls() <-chan types.HallOrder { return l.calls }

func (l *Ledger) floor(index int) *floor {
	f, ok := l.floors[index]
	if !ok {
		panic(fmt.Sprintf("ledger: unknown floor %d", index))
	}
	return f
}

// Enqueue appends p to its origin floor's waiting list and presses the button for its
// direction. A call is published only when the button goes from released to pressed.
// The passenger stays queued if ctx ends before the call could be published.
func (l *Ledger) Enqueue(ctx context.Context, p *types.Passenger) error {
	hall := p.Hall()
	if !l.topo.HasButton(p.Origin, hall) {
		return fmt.Errorf("%w: %s at floor %d", ErrNoButton, hall, p.Origin)
	}
	f := l.floor(p.Origin)

	f.mu.Lock()
	f.waiting[hall] = append(f.waiting[hall], p)
	latched := !f.pressed[hall]
	f.pressed[hall] = true
	f.mu.Unlock()

	if latched {
		order := types.HallOrder{Floor: p.Origin, Button: hall}
		slog.Debug("Call latched", "order", order, "passenger", p.Label())
		return l.publish(ctx, order)
	}
	return nil
}

// Take removes and returns the earliest passenger waiting at index for hall whose
// destination satisfies canReach. Ineligible passengers keep their place.
func (l *Ledger) Take(index int, hall types.HallType, canReach func(int) bool) (*types.Passenger, bool) {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.waiting[hall], func(p *types.Passenger) bool { return canReach(p.Dest) })
	if i < 0 {
		return nil, false
	}
	p := f.waiting[hall][i]
	f.waiting[hall] = slices.DeleteFunc(f.waiting[hall], func(q *types.Passenger) bool { return q == p })
	return p, true
}

func (l *Ledger) HasEligible(index int, hall types.HallType, canReach func(int) bool) bool {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.ContainsFunc(f.waiting[hall], func(p *types.Passenger) bool { return canReach(p.Dest) })
}

func (l *Ledger) Len(index int, hall types.HallType) int {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.waiting[hall])
}

// Waiting returns a copy of the waiting list in arrival order.
func (l *Ledger) Waiting(index int, hall types.HallType) []*types.Passenger {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.waiting[hall])
}

func (l *Ledger) Pressed(index int, hall types.HallType) bool {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pressed[hall]
}

// Reset releases the button and returns how many passengers are still waiting for it.
func (l *Ledger) Reset(index int, hall types.HallType) int {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pressed[hall] = false
	return len(f.waiting[hall])
}

// ResetOrRelatch releases the button, or keeps it latched when anyone is still waiting
// for it, in one step. It reports whether the button stayed latched.
func (l *Ledger) ResetOrRelatch(index int, hall types.HallType) bool {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pressed[hall] = len(f.waiting[hall]) > 0
	return f.pressed[hall]
}

// Reassert publishes order again without touching the button.
func (l *Ledger) Reassert(ctx context.Context, order types.HallOrder) error {
	return l.publish(ctx, order)
}

func (l *Ledger) publish(ctx context.Context, order types.HallOrder) error {
	select {
	case l.calls <- order:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Prefer picks the direction with more passengers at index whose destination satisfies
// canReach, up on a tie. It reports false when nobody is waiting.
func (l *Ledger) Prefer(index int, canReach func(int) bool) (types.HallType, bool) {
	f := l.floor(index)
	f.mu.Lock()
	defer f.mu.Unlock()
	count := func(hall types.HallType) int {
		n := 0
		for _, p := range f.waiting[hall] {
			if canReach(p.Dest) {
				n++
			}
		}
		return n
	}
	up, down := count(types.HallUp), count(types.HallDown)
	switch {
	case up == 0 && down == 0:
		return types.HallUp, false
	case down > up:
		return types.HallDown, true
	default:
		return types.HallUp, true
	}
}

// Outstanding counts every waiting passenger in the building.
func (l *Ledger) Outstanding() int {
	n := 0
	for _, f := range l.floors {
		f.mu.Lock()
		n += len(f.waiting[types.HallUp]) + len(f.waiting[types.HallDown])
		f.mu.Unlock()
	}
	return n
}
