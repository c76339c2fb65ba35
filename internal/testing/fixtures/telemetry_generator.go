// Package fixtures writes synthetic telemetry recordings for tests.
package fixtures

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/derive"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/data/parser"
)

// FlightProfile describes a parabolic hop: a climb to Apogee over
// AscentTime seconds followed by a symmetric descent.
type FlightProfile struct {
	Apogee         float64 // meters above ground
	AscentTime     float64 // seconds
	SampleRate     float64 // samples per second
	GroundPressure float64 // pascal
	Temperature    float64 // kelvin
}

// DefaultProfile is a 100 m hop sampled at 10 Hz.
func DefaultProfile() FlightProfile {
	return FlightProfile{
		Apogee:         100,
		AscentTime:     5,
		SampleRate:     10,
		GroundPressure: constants.SeaLevelPressure,
		Temperature:    constants.StandardTemperature,
	}
}

// Samples generates the raw samples of the profile, one per sampling
// period from t=0 until touchdown.
func (p FlightProfile) Samples() []model.RawSample {
	if p.SampleRate <= 0 || p.AscentTime <= 0 {
		return nil
	}
	total := 2 * p.AscentTime
	n := int(math.Round(total*p.SampleRate)) + 1

	samples := make([]model.RawSample, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / p.SampleRate
		// h(t) = apogee * (1 - ((t - T)/T)^2)
		x := (t - p.AscentTime) / p.AscentTime
		h := math.Max(0, p.Apogee*(1-x*x))

		accelZ := constants.Gravity
		if t < p.AscentTime/4 {
			accelZ += 3 * constants.Gravity
		}

		samples = append(samples, model.RawSample{
			Time:        t,
			Pressure:    math.Round(derive.PressureAt(h, p.GroundPressure, p.Temperature)*100) / 100,
			Temperature: p.Temperature - constants.LapseRate*h - 273.15,
			Accel:       model.Vec3{Z: accelZ},
			Gyro:        model.Vec3{X: 0.01 * float64(i%3)},
		})
	}
	return samples
}

// Lines renders the profile as telemetry lines.
func (p FlightProfile) Lines() []string {
	samples := p.Samples()
	lines := make([]string, len(samples))
	for i, s := range samples {
		lines[i] = parser.FormatLine(s)
	}
	return lines
}

// TelemetryGenerator writes recordings below a base directory.
type TelemetryGenerator struct {
	baseDir string
}

func NewTelemetryGenerator(baseDir string) *TelemetryGenerator {
	return &TelemetryGenerator{baseDir: baseDir}
}

func (g *TelemetryGenerator) GetBaseDir() string { return g.baseDir }

// WriteLines writes lines, newline terminated, to name below the base
// directory and returns the full path.
func (g *TelemetryGenerator) WriteLines(name string, lines []string) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	return path, os.WriteFile(path, []byte(content), 0644)
}

// GenerateFlight writes the profile as a recording.
func (g *TelemetryGenerator) GenerateFlight(name string, profile FlightProfile) (string, error) {
	return g.WriteLines(name, profile.Lines())
}

// GenerateNoisyFlight writes the profile with a malformed line inserted
// after every `every` samples, as seen on a lossy radio link.
func (g *TelemetryGenerator) GenerateNoisyFlight(name string, profile FlightProfile, every int) (string, error) {
	var lines []string
	for i, l := range profile.Lines() {
		lines = append(lines, l)
		if every > 0 && (i+1)%every == 0 {
			lines = append(lines, l[:len(l)/3])
		}
	}
	return g.WriteLines(name, lines)
}
