package eventlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"shaftsim/src/types"
)

func TestSlogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	sink.Emit(MovingEvent{Meta: Stamp("A"), From: 0, To: 7})
	sink.Emit(DoorsClosedEvent{Meta: Stamp("A"), Floor: 7, Passengers: 3})

	out := buf.String()
	for _, want := range []string{"shaft=A", "msg=Moving", "to=7", "passengers=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShaftFiles(t *testing.T) {
	dir := t.TempDir()
	sf, err := OpenShaftFiles(dir, []string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.New()
	sf.Emit(BoardedEvent{Meta: Stamp("B"), Floor: 2, Passenger: id, Name: "Kari", Direction: types.MD_Up})
	sf.Emit(AlightedEvent{Meta: Stamp("B"), Floor: 6, Passenger: id, Name: "Kari", Trip: 1500 * time.Millisecond})
	sf.Emit(ArrivedEvent{Meta: Stamp("unknown"), Floor: 1})
	if err := sf.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "B.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
			t.Fatalf("bad line %q: %v", scanner.Text(), err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["event"] != "boarded" || lines[0]["dir"] != "up" || lines[0]["shaft"] != "B" {
		t.Errorf("unexpected boarded line %v", lines[0])
	}
	if lines[1]["trip_seconds"] != 1.5 {
		t.Errorf("trip_seconds = %v, want 1.5", lines[1]["trip_seconds"])
	}

	if info, err := os.Stat(filepath.Join(dir, "A.log")); err != nil || info.Size() != 0 {
		t.Errorf("A.log should exist and be empty: %v", err)
	}
}

func TestTallyAndMulti(t *testing.T) {
	tally := NewTally()
	rec := &Recorder{}
	sink := Multi(tally, nil, rec)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Emit(BoardedEvent{Meta: Stamp("A")})
			sink.Emit(AlightedEvent{Meta: Stamp("A"), Trip: time.Duration(i+1) * time.Second})
		}()
	}
	wg.Wait()

	got := tally.Totals()
	if got.Boarded != 10 || got.Served != 10 || got.PerShaft["A"] != 10 {
		t.Errorf("totals %+v", got)
	}
	if got.TripMax != 10*time.Second || got.MeanTrip() != 5500*time.Millisecond {
		t.Errorf("max %v mean %v", got.TripMax, got.MeanTrip())
	}
	if n := rec.Count(func(e Event) bool { _, ok := e.(AlightedEvent); return ok }); n != 10 {
		t.Errorf("recorder saw %d alightings", n)
	}
}

func TestReplaceAttrTrimsSource(t *testing.T) {
	a := replaceAttr(nil, slog.Any(slog.SourceKey, &slog.Source{File: "/x/y/car.go", Line: 12}))
	if a.Value.String() != "car.go:12" {
		t.Errorf("got %q", a.Value.String())
	}
}
