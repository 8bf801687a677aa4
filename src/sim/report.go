package sim

import (
	"io"
	"slices"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"shaftsim/src/eventlog"
)

// PrintReport writes a run summary to w.
func PrintReport(w io.Writer, totals eventlog.Totals, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "=== Simulation report ===\n")
	p.Fprintf(w, "%-20s %v\n", "Elapsed:", elapsed.Round(time.Millisecond))
	p.Fprintf(w, "%-20s %d\n", "Passengers boarded:", totals.Boarded)
	p.Fprintf(w, "%-20s %d\n", "Passengers served:", totals.Served)
	p.Fprintf(w, "%-20s %.1fs\n", "Mean trip:", totals.MeanTrip().Seconds())
	p.Fprintf(w, "%-20s %.1fs\n", "Longest trip:", totals.TripMax.Seconds())

	shafts := make([]string, 0, len(totals.PerShaft))
	for label := range totals.PerShaft {
		shafts = append(shafts, label)
	}
	slices.Sort(shafts)
	for _, label := range shafts {
		p.Fprintf(w, "  shaft %s: %d boardings\n", label, totals.PerShaft[label])
	}
}
