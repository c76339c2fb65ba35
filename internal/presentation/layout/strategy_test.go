package layout

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

func sampleMetrics() *model.DashboardMetrics {
	latest := model.DerivedSample{
		RawSample: model.RawSample{
			Time:        12.5,
			Pressure:    100120.5,
			Temperature: 18.25,
			Accel:       model.Vec3{Z: 9.81},
			Gyro:        model.Vec3{X: 0.02},
		},
		Altitude:      101.37,
		VerticalSpeed: -42,
	}
	return &model.DashboardMetrics{
		State:             model.StateTracking,
		ReferencePressure: 101325,
		AutoLock:          true,
		Source:            "replay:flight.tlm",
		Count:             126,
		Capacity:          100000,
		Accepted:          126,
		Dropped:           3,
		Latest:            &latest,
		HasRanges:         true,
		Pressure:          model.Range{Min: 100120.5, Max: 101325},
		AccelZ:            model.Range{Min: 9.5, Max: 39.2},
		VerticalSpeed:     model.Range{Min: -42, Max: 310},
		Altitude:          model.Range{Min: 0, Max: 120.4},
		AltitudeTrace:     []float64{0, 20, 60, 110, 120.4, 101.37},
		StreamClients:     2,
	}
}

var fixedParam = model.LayoutParam{
	Width: 80,
	Now:   time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
}

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		name  string
		style int
		want  string
	}{
		{"full", StyleFull, "Full Dashboard"},
		{"minimal", StyleMinimal, "Minimal Dashboard"},
		{"unknown defaults to full", 99, "Full Dashboard"},
		{"negative defaults to full", -1, "Full Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetLayoutStrategy(tt.style).GetName())
		})
	}
}

func TestNextStyle(t *testing.T) {
	assert.Equal(t, StyleMinimal, NextStyle(StyleFull))
	assert.Equal(t, StyleFull, NextStyle(StyleMinimal))
}

func TestFullLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, sampleMetrics(), fixedParam)
	out := buf.String()

	for _, want := range []string{
		"FLIGHT MONITOR", "replay:flight.tlm", "TRACKING", "09:30:00",
		"Reference: 101325.00 Pa [auto]", "Samples: 126 / 100,000",
		"bad 3", "Altitude: +101.37 m", "Apogee: +120.40 m",
		"Vertical speed: -42", "Temperature: 18.25",
		"Pressure: 100120.50 .. 101325.00", "Speed: -42 .. +310",
		"Streaming to 2 clients", "q quit",
	} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "╰"))
	for _, line := range lines {
		assert.Equal(t, 80, util.GetDisplayWidth(line), "line %q", util.StripANSI(line))
	}
}

func TestFullLayoutWithoutData(t *testing.T) {
	m := &model.DashboardMetrics{State: model.StateIdle, ReferencePressure: 101325, Capacity: 100000}

	var buf bytes.Buffer
	(&FullLayoutStrategy{}).Render(&buf, m, fixedParam)
	out := buf.String()

	assert.Contains(t, out, "IDLE")
	assert.Contains(t, out, "Press 's' to start tracking")
	assert.NotContains(t, out, "Apogee")
	assert.NotContains(t, out, "Streaming")

	m.State = model.StateTracking
	buf.Reset()
	(&FullLayoutStrategy{}).Render(&buf, m, fixedParam)
	assert.Contains(t, buf.String(), "Waiting for telemetry")
}

func TestMinimalLayoutRender(t *testing.T) {
	var buf bytes.Buffer
	(&MinimalLayoutStrategy{}).Render(&buf, sampleMetrics(), fixedParam)
	out := util.StripANSI(buf.String())

	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "● TRACKING")
	assert.Contains(t, out, "alt +101.37 m")
	assert.Contains(t, out, "apogee +120.40 m")
	assert.Contains(t, out, "n=126")
	assert.Contains(t, out, "09:30:00")

	buf.Reset()
	(&MinimalLayoutStrategy{}).Render(&buf, &model.DashboardMetrics{}, fixedParam)
	assert.Contains(t, buf.String(), "no data")
}
