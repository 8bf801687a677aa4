package eventlog

import (
	"log/slog"
	"sync"
	"time"
)

// Sink consumes car events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(Event)
}

// SlogSink writes each event as one structured record.
type SlogSink struct {
	log *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{log: logger}
}

func (s *SlogSink) Emit(e Event) {
	log := s.log.With("shaft", e.ShaftLabel())
	switch e := e.(type) {
	case MovingEvent:
		log.Info("Moving", "from", e.From, "to", e.To)
	case PassingEvent:
		log.Debug("Passing", "floor", e.Floor)
	case ArrivedEvent:
		log.Info("Arrived", "floor", e.Floor)
	case DoorsOpeningEvent:
		log.Debug("Doors opening", "floor", e.Floor)
	case DoorsOpenEvent:
		log.Debug("Doors open", "floor", e.Floor)
	case DoorsClosingEvent:
		log.Debug("Doors closing", "floor", e.Floor)
	case DoorsClosedEvent:
		log.Info("Doors closed", "floor", e.Floor, "passengers", e.Passengers)
	case BoardedEvent:
		log.Info("Boarded", "floor", e.Floor, "passenger", e.Name, "dir", e.Direction)
	case AlightedEvent:
		log.Info("Alighted", "floor", e.Floor, "passenger", e.Name, "trip", e.Trip.Round(time.Millisecond))
	case WaitingEvent:
		log.Info("Waiting", "floor", e.Floor)
	default:
		log.Warn("Unknown event", "event", e)
	}
}

type multi []Sink

func (m multi) Emit(e Event) {
	for _, s := range m {
		s.Emit(e)
	}
}

// Multi fans every event out to sinks in order. Nil sinks are dropped.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

// Discard drops every event.
var Discard Sink = multi(nil)

// Totals is a snapshot of a Tally.
type Totals struct {
	Boarded  int
	Served   int
	TripSum  time.Duration
	TripMax  time.Duration
	PerShaft map[string]int
}

func (t Totals) MeanTrip() time.Duration {
	if t.Served == 0 {
		return 0
	}
	return t.TripSum / time.Duration(t.Served)
}

// Tally counts boardings and completed trips.
type Tally struct {
	mu     sync.Mutex
	totals Totals
}

func NewTally() *Tally {
	return &Tally{totals: Totals{PerShaft: map[string]int{}}}
}

func (t *Tally) Emit(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch e := e.(type) {
	case BoardedEvent:
		t.totals.Boarded++
		t.totals.PerShaft[e.Shaft]++
	case AlightedEvent:
		t.totals.Served++
		t.totals.TripSum += e.Trip
		t.totals.TripMax = max(t.totals.TripMax, e.Trip)
	}
}

func (t *Tally) Totals() Totals {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.totals
	out.PerShaft = make(map[string]int, len(t.totals.PerShaft))
	for k, v := range t.totals.PerShaft {
		out.PerShaft[k] = v
	}
	return out
}

// Recorder keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many recorded events satisfy match.
func (r *Recorder) Count(match func(Event) bool) int {
	n := 0
	for _, e := range r.Events() {
		if match(e) {
			n++
		}
	}
	return n
}
