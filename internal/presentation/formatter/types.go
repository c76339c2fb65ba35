package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
)

// Formatter writes flight summaries in one output format.
type Formatter interface {
	Format(w io.Writer, data []aggregator.FlightSummary) error
}

// Formats lists the accepted --output values.
var Formats = []string{"table", "json", "csv", "summary"}

// New returns the formatter for name.
func New(name string) (Formatter, error) {
	switch name {
	case "", "table":
		return NewTableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", name, Formats)
	}
}

// Totals aggregates a set of flights.
type Totals struct {
	Flights       int
	Lines         int
	Accepted      int
	Dropped       int
	Duration      float64
	HighestApogee float64
	HighestFlight string
	MaxAccelZ     float64
	MaxSpeed      float64
}

// ComputeTotals sums data. Flights without accepted samples are counted but
// contribute no extremes.
func ComputeTotals(data []aggregator.FlightSummary) Totals {
	var t Totals
	first := true
	for _, f := range data {
		t.Flights++
		t.Lines += f.Lines
		t.Accepted += f.Accepted
		t.Dropped += f.Dropped
		t.Duration += f.Duration
		if f.Empty() {
			continue
		}
		if first || f.Apogee > t.HighestApogee {
			t.HighestApogee, t.HighestFlight = f.Apogee, f.FlightID
		}
		if first || f.MaxAccelZ > t.MaxAccelZ {
			t.MaxAccelZ = f.MaxAccelZ
		}
		if first || f.MaxVerticalSpeed > t.MaxSpeed {
			t.MaxSpeed = f.MaxVerticalSpeed
		}
		first = false
	}
	return t
}
