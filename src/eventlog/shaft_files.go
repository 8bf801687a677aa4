package eventlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// ShaftFiles writes each shaft's events to <dir>/<label>.log, one JSON line per event.
type ShaftFiles struct {
	files   []*os.File
	loggers map[string]zerolog.Logger
}

func OpenShaftFiles(dir string, labels []string) (*ShaftFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	sf := &ShaftFiles{loggers: make(map[string]zerolog.Logger, len(labels))}
	for _, label := range labels {
		f, err := os.OpenFile(filepath.Join(dir, label+".log"), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			sf.Close()
			return nil, fmt.Errorf("open shaft log %s: %w", label, err)
		}
		sf.files = append(sf.files, f)
		sf.loggers[label] = zerolog.New(f).With().Timestamp().Str("shaft", label).Logger()
	}
	return sf, nil
}

func (sf *ShaftFiles) Emit(e Event) {
	log, ok := sf.loggers[e.ShaftLabel()]
	if !ok {
		return
	}
	switch e := e.(type) {
	case MovingEvent:
		log.Info().Str("event", "moving").Int("from", e.From).Int("to", e.To).Send()
	case PassingEvent:
		log.Debug().Str("event", "passing").Int("floor", e.Floor).Send()
	case ArrivedEvent:
		log.Info().Str("event", "arrived").Int("floor", e.Floor).Send()
	case DoorsOpeningEvent:
		log.Info().Str("event", "doors_opening").Int("floor", e.Floor).Send()
	case DoorsOpenEvent:
		log.Info().Str("event", "doors_open").Int("floor", e.Floor).Send()
	case DoorsClosingEvent:
		log.Info().Str("event", "doors_closing").Int("floor", e.Floor).Send()
	case DoorsClosedEvent:
		log.Info().Str("event", "doors_closed").Int("floor", e.Floor).Int("passengers", e.Passengers).Send()
	case BoardedEvent:
		log.Info().Str("event", "boarded").Int("floor", e.Floor).
			Str("passenger", e.Name).Str("id", e.Passenger.String()).Stringer("dir", e.Direction).Send()
	case AlightedEvent:
		log.Info().Str("event", "alighted").Int("floor", e.Floor).
			Str("passenger", e.Name).Str("id", e.Passenger.String()).Float64("trip_seconds", e.Trip.Seconds()).Send()
	case WaitingEvent:
		log.Info().Str("event", "waiting").Int("floor", e.Floor).Send()
	}
}

func (sf *ShaftFiles) Close() error {
	var errs []error
	for _, f := range sf.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}
