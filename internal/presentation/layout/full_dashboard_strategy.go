package layout

import (
	"fmt"
	"io"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// FullLayoutStrategy implements the full dashboard layout
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Dashboard"
}

func (s *FullLayoutStrategy) Render(w io.Writer, m *model.DashboardMetrics, param model.LayoutParam) {
	width := s.GetSizer().GetMaxWidth(param.Width)
	sep := s.Separator(width)

	fmt.Fprintln(w, s.TopBorder(width))
	s.header(w, m, param, width)
	fmt.Fprintln(w, sep)
	s.bufferSection(w, m, width)
	fmt.Fprintln(w, sep)

	if m.Latest == nil {
		s.waiting(w, m, width)
	} else {
		s.readings(w, m, width)
		fmt.Fprintln(w, sep)
		s.ranges(w, m, width)
		fmt.Fprintln(w, sep)
		s.trace(w, m, width)
	}

	fmt.Fprintln(w, sep)
	s.footer(w, m, width)
	fmt.Fprintln(w, s.BottomBorder(width))
}

func (s *FullLayoutStrategy) header(w io.Writer, m *model.DashboardMetrics, param model.LayoutParam, width int) {
	left := "🚀 FLIGHT MONITOR"
	if m.Source != "" {
		left += "  │  " + m.Source
	}
	right := fmt.Sprintf("%s  │  %s", s.StateBadge(m.State), param.Clock())
	fmt.Fprintln(w, s.TwoColumns(left, right, width))
}

func (s *FullLayoutStrategy) bufferSection(w io.Writer, m *model.DashboardMetrics, width int) {
	samples := fmt.Sprintf("Samples: %s / %s", util.FormatCount(int64(m.Count)), util.FormatCount(int64(m.Capacity)))
	fmt.Fprintln(w, s.TwoColumns(s.ReferenceLabel(m), samples, width))

	fill := m.FillPercent()
	bar := fmt.Sprintf("Buffer %s %5.1f%%", util.CreateProgressBar(fill, 20), fill)
	counters := fmt.Sprintf("in %s · bad %s · idle %s",
		util.FormatCount(m.Accepted), util.FormatCount(m.Dropped), util.FormatCount(m.Ignored))
	fmt.Fprintln(w, s.TwoColumns(bar, counters, width))
}

func (s *FullLayoutStrategy) waiting(w io.Writer, m *model.DashboardMetrics, width int) {
	msg := "Waiting for telemetry..."
	if m.State == model.StateIdle {
		msg = "Idle. Press 's' to start tracking."
	}
	fmt.Fprintln(w, s.Line(msg, width))
}

func (s *FullLayoutStrategy) readings(w io.Writer, m *model.DashboardMetrics, width int) {
	latest := m.Latest
	rows := [][2]string{
		{"Time: " + util.FormatElapsed(latest.Time), "Pressure: " + util.FormatPressure(latest.Pressure)},
		{"Altitude: " + util.FormatAltitude(latest.Altitude), "Apogee: " + util.FormatAltitude(m.Apogee())},
		{"Vertical speed: " + util.FormatSpeed(latest.VerticalSpeed), fmt.Sprintf("Temperature: %.2f", latest.Temperature)},
		{"Accel: " + formatVec(latest.Accel), "Gyro: " + formatVec(latest.Gyro)},
	}
	for _, row := range rows {
		fmt.Fprintln(w, s.TwoColumns(row[0], row[1], width))
	}
}

func (s *FullLayoutStrategy) ranges(w io.Writer, m *model.DashboardMetrics, width int) {
	if !m.HasRanges {
		return
	}
	fmt.Fprintln(w, s.TwoColumns(
		"Pressure: "+util.FormatRange("%.2f", m.Pressure.Min, m.Pressure.Max),
		"Accel Z: "+util.FormatRange("%.2f", m.AccelZ.Min, m.AccelZ.Max),
		width))
	fmt.Fprintln(w, s.TwoColumns(
		"Speed: "+util.FormatRange("%+.0f", m.VerticalSpeed.Min, m.VerticalSpeed.Max),
		"Altitude: "+util.FormatRange("%+.2f", m.Altitude.Min, m.Altitude.Max),
		width))
}

func (s *FullLayoutStrategy) trace(w io.Writer, m *model.DashboardMetrics, width int) {
	const label = "Altitude "
	spark := util.Sparkline(m.AltitudeTrace, width-4-len(label))
	fmt.Fprintln(w, s.Line(label+util.Colorize(util.ColorCyan, spark), width))
}

func (s *FullLayoutStrategy) footer(w io.Writer, m *model.DashboardMetrics, width int) {
	if m.StreamClients > 0 {
		fmt.Fprintln(w, s.Line(fmt.Sprintf("🌐 Streaming to %d clients", m.StreamClients), width))
	}
	fmt.Fprintln(w, s.Line("s start/stop · c clear · g ground · a auto · +/- ref · h help · q quit", width))
}
