package fixtures

import (
	"testing"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/derive"
	"github.com/penwyp/go-flight-monitor/internal/data/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSamples(t *testing.T) {
	p := DefaultProfile()
	samples := p.Samples()

	require.Len(t, samples, 101)
	assert.Equal(t, 0.0, samples[0].Time)
	assert.Equal(t, 10.0, samples[100].Time)
	assert.Equal(t, constants.SeaLevelPressure, samples[0].Pressure)

	apogee := derive.Altitude(samples[50].Pressure, p.GroundPressure, p.Temperature)
	assert.InDelta(t, 100, apogee, 0.1)

	assert.Empty(t, FlightProfile{}.Samples())
}

func TestGenerateNoisyFlight(t *testing.T) {
	g := NewTelemetryGenerator(t.TempDir())
	p := DefaultProfile()

	path, err := g.GenerateNoisyFlight("noisy/flight.tlm", p, 10)
	require.NoError(t, err)

	rec, err := parser.NewParser(1).ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, rec.Samples, 101)
	assert.Equal(t, 10, rec.Malformed)
	assert.Equal(t, 111, rec.Lines)
}
