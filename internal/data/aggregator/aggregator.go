package aggregator

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/data/parser"
)

// FlightSummary holds the statistics of one replayed recording, together
// with the file identity used to validate cached copies.
type FlightSummary struct {
	FlightID string `json:"flightId"`
	FilePath string `json:"filePath"`

	Lines    int `json:"lines"`
	Accepted int `json:"accepted"`
	Dropped  int `json:"dropped"`

	StartTime         float64 `json:"startTime"`
	EndTime           float64 `json:"endTime"`
	Duration          float64 `json:"duration"`
	ReferencePressure float64 `json:"referencePressure"`

	Apogee           float64 `json:"apogee"`
	ApogeeTime       float64 `json:"apogeeTime"`
	FinalAltitude    float64 `json:"finalAltitude"`
	MinPressure      float64 `json:"minPressure"`
	MaxPressure      float64 `json:"maxPressure"`
	MinVerticalSpeed float64 `json:"minVerticalSpeed"`
	MaxVerticalSpeed float64 `json:"maxVerticalSpeed"`
	MinAccelZ        float64 `json:"minAccelZ"`
	MaxAccelZ        float64 `json:"maxAccelZ"`
	MaxTemperature   float64 `json:"maxTemperature"`

	LastModified       int64  `json:"lastModified"`
	FileSize           int64  `json:"fileSize"`
	Inode              uint64 `json:"inode"`
	ContentFingerprint string `json:"content_fingerprint,omitempty"`
}

// Empty reports whether no sample of the recording was accepted.
func (f *FlightSummary) Empty() bool { return f.Accepted == 0 }

// ExtractFlightID derives the flight id from a recording path.
// e.g. "/data/2024-05-01-launch.tlm" -> "2024-05-01-launch"
func ExtractFlightID(filePath string) string {
	name := filepath.Base(filePath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Aggregator replays recordings through a headless session.
type Aggregator struct {
	config            session.Config
	referencePressure float64
}

// NewAggregator creates an Aggregator. A non-positive referencePressure
// takes the first valid sample of each recording as ground level.
func NewAggregator(cfg session.Config, referencePressure float64) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{config: cfg, referencePressure: referencePressure}, nil
}

// Summarize derives every sample of rec in file order and folds the
// results into a summary. Samples are read back as they are appended, so
// recordings longer than the session capacity are still covered in full.
func (a *Aggregator) Summarize(path string, rec *parser.Recording) (*FlightSummary, error) {
	summary := &FlightSummary{
		FlightID: ExtractFlightID(path),
		FilePath: path,
		Lines:    rec.Lines,
		Dropped:  rec.Malformed,
	}

	reference := a.referencePressure
	if reference <= 0 {
		reference = firstPositivePressure(rec.Samples)
	}
	summary.ReferencePressure = reference

	s, err := session.New(a.config, session.StaticControls{Reference: reference})
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", path, err)
	}
	s.Start()

	for _, raw := range rec.Samples {
		if !s.IngestSample(raw) {
			continue
		}
		sample, _ := s.Store().Latest()
		summary.add(sample)
	}
	if summary.Accepted > 0 {
		summary.Duration = summary.EndTime - summary.StartTime
	}
	return summary, nil
}

func (f *FlightSummary) add(s model.DerivedSample) {
	if f.Accepted == 0 {
		f.StartTime = s.Time
		f.Apogee, f.ApogeeTime = s.Altitude, s.Time
		f.MinPressure, f.MaxPressure = s.Pressure, s.Pressure
		f.MinVerticalSpeed, f.MaxVerticalSpeed = s.VerticalSpeed, s.VerticalSpeed
		f.MinAccelZ, f.MaxAccelZ = s.Accel.Z, s.Accel.Z
		f.MaxTemperature = s.Temperature
	}
	f.Accepted++
	f.EndTime = s.Time
	f.FinalAltitude = s.Altitude

	if s.Altitude > f.Apogee {
		f.Apogee, f.ApogeeTime = s.Altitude, s.Time
	}
	f.MinPressure = math.Min(f.MinPressure, s.Pressure)
	f.MaxPressure = math.Max(f.MaxPressure, s.Pressure)
	f.MinVerticalSpeed = math.Min(f.MinVerticalSpeed, s.VerticalSpeed)
	f.MaxVerticalSpeed = math.Max(f.MaxVerticalSpeed, s.VerticalSpeed)
	f.MinAccelZ = math.Min(f.MinAccelZ, s.Accel.Z)
	f.MaxAccelZ = math.Max(f.MaxAccelZ, s.Accel.Z)
	f.MaxTemperature = math.Max(f.MaxTemperature, s.Temperature)
}

func firstPositivePressure(samples []model.RawSample) float64 {
	for _, s := range samples {
		if s.Pressure > 0 {
			return s.Pressure
		}
	}
	return 0
}
