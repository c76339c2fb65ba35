package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// SummaryFormatter writes a plain-text report of totals across flights.
type SummaryFormatter struct{}

func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

func (f *SummaryFormatter) Format(w io.Writer, data []aggregator.FlightSummary) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Flight Telemetry Summary Report")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	if len(data) == 0 {
		fmt.Fprintln(&b, "No flights to summarize")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, rule)
		_, err := io.WriteString(w, b.String())
		return err
	}

	t := ComputeTotals(data)

	fmt.Fprintln(&b, "Recordings:")
	fmt.Fprintf(&b, "  Flights:          %d\n", t.Flights)
	fmt.Fprintf(&b, "  Lines:            %s\n", util.FormatCount(int64(t.Lines)))
	fmt.Fprintf(&b, "  Samples accepted: %s\n", util.FormatCount(int64(t.Accepted)))
	fmt.Fprintf(&b, "  Lines dropped:    %s\n", util.FormatCount(int64(t.Dropped)))
	fmt.Fprintf(&b, "  Recorded time:    %s\n", util.FormatElapsed(t.Duration))
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Records:")
	if t.HighestFlight != "" {
		fmt.Fprintf(&b, "  Highest apogee:   %.2f m (%s)\n", t.HighestApogee, t.HighestFlight)
		fmt.Fprintf(&b, "  Max accel z:      %.2f\n", t.MaxAccelZ)
		fmt.Fprintf(&b, "  Max climb:        %.0f\n", t.MaxSpeed)
	} else {
		fmt.Fprintln(&b, "  No valid samples")
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "Flights:")
	fmt.Fprintln(&b, strings.Repeat("-", 60))
	for _, s := range data {
		fmt.Fprintf(&b, "\n%s:\n", s.FlightID)
		fmt.Fprintf(&b, "  File:             %s\n", s.FilePath)
		fmt.Fprintf(&b, "  Samples:          %d (%d dropped)\n", s.Accepted, s.Dropped)
		if s.Empty() {
			continue
		}
		fmt.Fprintf(&b, "  Duration:         %s\n", util.FormatElapsed(s.Duration))
		fmt.Fprintf(&b, "  Reference:        %s\n", util.FormatPressure(s.ReferencePressure))
		fmt.Fprintf(&b, "  Apogee:           %.2f m at t=%g\n", s.Apogee, s.ApogeeTime)
		fmt.Fprintf(&b, "  Pressure:         %s\n", util.FormatRange("%.2f", s.MinPressure, s.MaxPressure))
		fmt.Fprintf(&b, "  Vertical speed:   %s\n", util.FormatRange("%.0f", s.MinVerticalSpeed, s.MaxVerticalSpeed))
		fmt.Fprintf(&b, "  Accel z:          %s\n", util.FormatRange("%.2f", s.MinAccelZ, s.MaxAccelZ))
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
