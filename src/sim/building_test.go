package sim

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"shaftsim/src/config"
	"shaftsim/src/eventlog"
	"shaftsim/src/types"
)

func fastConfig(shafts ...config.Shaft) config.Config {
	cfg := config.Default()
	cfg.TravelDuration = time.Millisecond
	cfg.DoorDuration = time.Millisecond
	cfg.BoardDuration = 0
	if len(shafts) > 0 {
		cfg.Shafts = shafts
	}
	return cfg
}

func startBuilding(t *testing.T, cfg config.Config) (*Building, *eventlog.Recorder) {
	t.Helper()
	rec := &eventlog.Recorder{}
	b, err := NewBuilding(cfg, rec)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
		b.Close()
	})
	return b, rec
}

func waitSettled(t *testing.T, b *Building) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !b.Settled() {
		if time.Now().After(deadline) {
			t.Fatalf("building did not settle, totals %+v", b.Totals())
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestEveryPassengerArrives(t *testing.T) {
	b, rec := startBuilding(t, fastConfig())
	trips := [][2]int{{0, 7}, {9, -1}, {10, 0}, {3, 5}, {5, 3}, {-1, 9}, {6, 10}, {0, 10}}
	passengers := map[*types.Passenger]bool{}
	for _, trip := range trips {
		p, err := b.Call(context.Background(), trip[0], trip[1], "")
		if err != nil {
			t.Fatalf("Call(%d, %d): %v", trip[0], trip[1], err)
		}
		passengers[p] = true
	}
	waitSettled(t, b)

	if got := b.Totals().Served; got != len(trips) {
		t.Errorf("served %d, want %d", got, len(trips))
	}
	for _, e := range rec.Events() {
		a, ok := e.(eventlog.AlightedEvent)
		if !ok {
			continue
		}
		for p := range passengers {
			if p.ID == a.Passenger && p.Dest != a.Floor {
				t.Errorf("passenger %s left at %d, wanted %d", p.Label(), a.Floor, p.Dest)
			}
		}
	}
}

func TestCapacityRespectedUnderCrowd(t *testing.T) {
	b, rec := startBuilding(t, fastConfig(config.Shaft{Label: "solo", Floors: []int{0, 1, 2, 3, 4, 5}}))
	const crowd = 25
	for range crowd {
		if _, err := b.Call(context.Background(), 0, 5, ""); err != nil {
			t.Fatal(err)
		}
	}
	waitSettled(t, b)

	if got := b.Totals().Served; got != crowd {
		t.Errorf("served %d, want %d", got, crowd)
	}
	for _, e := range rec.Events() {
		if c, ok := e.(eventlog.DoorsClosedEvent); ok && c.Passengers > config.Capacity {
			t.Errorf("car left floor %d carrying %d", c.Floor, c.Passengers)
		}
	}
}

func TestBoardingMatchesDirectionAndReach(t *testing.T) {
	b, rec := startBuilding(t, fastConfig())
	passengers := map[uuid.UUID]*types.Passenger{}
	for _, trip := range [][2]int{{5, 10}, {5, -1}, {5, 0}, {5, 9}, {0, 10}, {0, -1}, {9, 6}} {
		p, err := b.Call(context.Background(), trip[0], trip[1], "")
		if err != nil {
			t.Fatal(err)
		}
		passengers[p.ID] = p
	}
	waitSettled(t, b)

	boarded := 0
	for _, e := range rec.Events() {
		bd, ok := e.(eventlog.BoardedEvent)
		if !ok {
			continue
		}
		boarded++
		p, ok := passengers[bd.Passenger]
		if !ok {
			t.Fatalf("unknown passenger %s boarded", bd.Passenger)
		}
		car := b.Car(bd.Shaft)
		if car == nil {
			t.Fatalf("unknown shaft %q", bd.Shaft)
		}
		if bd.Direction != p.Dir() {
			t.Errorf("%s going %v boarded a car heading %v", p.Label(), p.Dir(), bd.Direction)
		}
		if !car.Reaches(p.Dest) {
			t.Errorf("%s bound for %d boarded shaft %s, which does not reach it", p.Label(), p.Dest, bd.Shaft)
		}
	}
	if boarded != len(passengers) {
		t.Errorf("%d boardings, want %d", boarded, len(passengers))
	}
	for _, e := range rec.Events() {
		a, ok := e.(eventlog.AlightedEvent)
		if ok && !b.Car(a.Shaft).Reaches(a.Floor) {
			t.Errorf("shaft %s delivered to unreachable floor %d", a.Shaft, a.Floor)
		}
	}
}

func TestCallRejectsBadTrips(t *testing.T) {
	b, err := NewBuilding(fastConfig(
		config.Shaft{Label: "low", Floors: []int{-1, 0, 1}},
		config.Shaft{Label: "high", Floors: []int{1, 2, 3}},
	), eventlog.Discard)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	tests := []struct {
		origin, dest int
		want         error
	}{
		{0, 9, ErrUnknownFloor},
		{2, 2, types.ErrSameFloor},
		{-1, 3, ErrNoRoute},
	}
	for _, tt := range tests {
		if _, err := b.Call(context.Background(), tt.origin, tt.dest, ""); !errors.Is(err, tt.want) {
			t.Errorf("Call(%d, %d) = %v, want %v", tt.origin, tt.dest, err, tt.want)
		}
	}
	if b.ledger.Outstanding() != 0 {
		t.Error("rejected passengers must not enter the ledger")
	}
}

func TestNewBuildingRejectsBadConfig(t *testing.T) {
	cfg := fastConfig()
	cfg.Capacity = 0
	if _, err := NewBuilding(cfg, eventlog.Discard); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("got %v, want config.ErrInvalid", err)
	}
}

func TestGenerator(t *testing.T) {
	b, err := NewBuilding(fastConfig(), eventlog.Discard)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	g1, err := NewGenerator(b.Topology(), 7)
	if err != nil {
		t.Fatal(err)
	}
	g2, _ := NewGenerator(b.Topology(), 7)
	for range 200 {
		trip := g1.Next()
		if trip.Origin == trip.Dest {
			t.Fatalf("generated a trip to nowhere: %+v", trip)
		}
		if !b.Topology().Routable(trip.Origin, trip.Dest) {
			t.Fatalf("generated an unroutable trip: %+v", trip)
		}
		if trip.Name == "" {
			t.Fatal("generated passenger has no name")
		}
		if other := g2.Next(); other.Origin != trip.Origin || other.Dest != trip.Dest {
			t.Fatal("same seed should give the same trips")
		}
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, eventlog.Totals{
		Boarded:  1234,
		Served:   1200,
		TripSum:  1200 * 3 * time.Second,
		TripMax:  9 * time.Second,
		PerShaft: map[string]int{"B": 600, "A": 634},
	}, 90*time.Second)

	out := buf.String()
	for _, want := range []string{"1,234", "1,200", "3.0s", "9.0s", "shaft A: 634"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "shaft A") > strings.Index(out, "shaft B") {
		t.Error("shafts should be listed in order")
	}
}
