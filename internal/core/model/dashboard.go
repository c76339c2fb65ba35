package model

import "time"

// TrackingState is the lifecycle state of a telemetry session.
type TrackingState int

const (
	StateIdle TrackingState = iota
	StateTracking
)

func (s TrackingState) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	default:
		return "idle"
	}
}

// DisplayMode represents the current display mode
type DisplayMode int

const (
	ModeNormal DisplayMode = iota
	ModeHelp
	ModeDialog
)

// InteractionState represents the current UI interaction state
type InteractionState struct {
	IsPaused      bool
	ShowHelp      bool
	LayoutStyle   int    // 0: Full Dashboard, 1: Minimal
	StatusMessage string // Status message to display
	ConfirmDialog *ConfirmDialog
}

// ConfirmDialog represents a confirmation dialog
type ConfirmDialog struct {
	Title     string
	Message   string
	OnConfirm func()
	OnCancel  func()
}

// DashboardMetrics is everything a layout needs to draw one frame.
type DashboardMetrics struct {
	State             TrackingState
	ReferencePressure float64
	AutoLock          bool
	Source            string

	Count    int
	Capacity int
	Accepted int64
	Dropped  int64
	Ignored  int64

	Latest        *DerivedSample
	HasRanges     bool
	Pressure      Range
	AccelZ        Range
	VerticalSpeed Range
	Altitude      Range

	// AltitudeTrace holds the most recent altitudes, oldest first.
	AltitudeTrace []float64

	StreamClients int
}

// Apogee returns the highest retained altitude, or 0 with no data.
func (m DashboardMetrics) Apogee() float64 {
	if !m.HasRanges {
		return 0
	}
	return m.Altitude.Max
}

// FillPercent returns how full the rolling store is.
func (m DashboardMetrics) FillPercent() float64 {
	if m.Capacity <= 0 {
		return 0
	}
	p := float64(m.Count) / float64(m.Capacity) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// LayoutParam carries display options that are not part of the metrics.
type LayoutParam struct {
	TimeFormat string    // "24h" (default) or "12h"
	Width      int       // frame width in cells; 0 follows the terminal
	Now        time.Time // clock shown in the header; zero uses time.Now
}

// Clock returns the header time formatted per TimeFormat.
func (p LayoutParam) Clock() string {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}
	if p.TimeFormat == "12h" {
		return now.Format("3:04:05 PM")
	}
	return now.Format("15:04:05")
}
