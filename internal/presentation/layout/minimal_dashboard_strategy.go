package layout

import (
	"fmt"
	"io"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// MinimalLayoutStrategy implements the minimal dashboard layout
type MinimalLayoutStrategy struct {
	BaseStrategy
}

func (s *MinimalLayoutStrategy) GetName() string {
	return "Minimal Dashboard"
}

// Render prints a single status line.
func (s *MinimalLayoutStrategy) Render(w io.Writer, m *model.DashboardMetrics, param model.LayoutParam) {
	reading := "no data"
	if m.Latest != nil {
		reading = fmt.Sprintf("alt %s | vs %s | apogee %s | %s",
			util.FormatAltitude(m.Latest.Altitude),
			util.FormatSpeed(m.Latest.VerticalSpeed),
			util.FormatAltitude(m.Apogee()),
			util.FormatPressure(m.Latest.Pressure))
	}

	fmt.Fprintf(w, "Flight: %s | %s | ref %s | n=%s | %s\n",
		s.StateBadge(m.State),
		reading,
		util.FormatPressure(m.ReferencePressure),
		util.FormatNumber(m.Count),
		param.Clock())
}
