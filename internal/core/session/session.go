// Package session wires parsing, derivation and buffering into a telemetry
// session with an Idle/Tracking lifecycle.
package session

import (
	"fmt"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/derive"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/series"
	"github.com/penwyp/go-flight-monitor/internal/data/parser"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// Stats counts what happened to the lines handed to a session.
type Stats struct {
	Accepted int64 `json:"accepted"`
	Dropped  int64 `json:"dropped"`  // malformed lines
	Ignored  int64 `json:"ignored"`  // lines received while idle
}

// Session owns the rolling store and the differential state of one stream.
// It performs no I/O and no locking: all methods must be called from the
// goroutine that owns the session.
type Session struct {
	engine    derive.Engine
	store     *series.Store
	controls  Controls
	observers []Observer

	state        model.TrackingState
	reference    float64
	lastPressure float64
	lastTime     float64
	stats        Stats
}

// New creates an idle session. A nil controls uses sea-level pressure
// without auto-lock.
func New(cfg Config, controls Controls) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	if controls == nil {
		controls = StaticControls{Reference: constants.SeaLevelPressure}
	}
	return &Session{
		engine: derive.Engine{
			ReferenceTemperature: cfg.ReferenceTemperature,
			SpeedTemperature:     cfg.SpeedTemperature,
			Scale:                cfg.DisplayScale,
		},
		store:     series.NewStore(cfg.Capacity),
		controls:  controls,
		state:     model.StateIdle,
		reference: controls.ReferencePressure(),
	}, nil
}

// Subscribe registers an observer for future notifications.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// State returns the lifecycle state.
func (s *Session) State() model.TrackingState { return s.state }

// Tracking reports whether lines are currently accepted.
func (s *Session) Tracking() bool { return s.state == model.StateTracking }

// ReferencePressure returns the pressure treated as altitude zero.
func (s *Session) ReferencePressure() float64 { return s.reference }

// Stats returns line counters since the last Clear.
func (s *Session) Stats() Stats { return s.stats }

// Store exposes the rolling history for read access by renderers running on
// the owning goroutine.
func (s *Session) Store() *series.Store { return s.store }

// Start captures the reference pressure from the controls and begins
// tracking. It returns false and changes nothing if already tracking.
func (s *Session) Start() bool {
	if s.state == model.StateTracking {
		return false
	}
	s.reference = s.controls.ReferencePressure()
	if s.reference <= 0 {
		util.LogWarnf("Starting session with non-positive reference pressure %.2f, altitude will read 0", s.reference)
	}
	util.LogInfof("Tracking started, reference pressure %.2f Pa", s.reference)
	s.setState(model.StateTracking)
	return true
}

// Stop ends tracking and keeps the buffered history.
func (s *Session) Stop() bool {
	if s.state == model.StateIdle {
		return false
	}
	util.LogInfof("Tracking stopped after %d samples", s.store.Len())
	s.setState(model.StateIdle)
	return true
}

// Clear discards the history and differential state and returns to Idle.
// The next accepted line is treated as the first reading.
func (s *Session) Clear() {
	s.store.Clear()
	s.lastPressure = 0
	s.lastTime = 0
	s.stats = Stats{}
	util.LogInfo("Session cleared")

	for _, o := range s.observers {
		o.Cleared()
	}
	s.setState(model.StateIdle)
}

// Ingest processes one raw telemetry line. Lines are ignored while idle and
// malformed lines are dropped; neither is an error. It reports whether a
// sample was appended.
func (s *Session) Ingest(line string) bool {
	if s.state != model.StateTracking {
		s.stats.Ignored++
		return false
	}
	raw, err := parser.ParseLine(line)
	if err != nil {
		s.stats.Dropped++
		util.LogDebugf("Dropped telemetry line: %v", err)
		return false
	}
	return s.accept(raw)
}

// IngestSample processes an already parsed sample with the same rules as Ingest.
func (s *Session) IngestSample(raw model.RawSample) bool {
	if s.state != model.StateTracking {
		s.stats.Ignored++
		return false
	}
	return s.accept(raw)
}

func (s *Session) accept(raw model.RawSample) bool {
	if s.controls.AutoLockReference() {
		if ground, err := s.store.Max(model.ChannelPressure); err == nil {
			s.reference = ground
		}
	}

	sample := s.engine.Derive(raw, s.reference, s.lastPressure, s.lastTime)
	s.lastPressure = raw.Pressure
	s.lastTime = raw.Time
	s.store.Append(sample)
	s.stats.Accepted++

	if len(s.observers) > 0 {
		update, _ := s.Snapshot()
		for _, o := range s.observers {
			o.SampleAvailable(update)
		}
	}
	return true
}

// LockReference sets the reference to the highest retained pressure, which
// is the lowest point recorded. It fails with series.ErrEmptyChannel when
// nothing is buffered.
func (s *Session) LockReference() (float64, error) {
	ground, err := s.store.Max(model.ChannelPressure)
	if err != nil {
		return s.reference, err
	}
	s.reference = ground
	util.LogInfof("Reference pressure locked to %.2f Pa", ground)
	return ground, nil
}

// Snapshot summarises the current history. ok is false when it is empty.
func (s *Session) Snapshot() (update Update, ok bool) {
	latest, ok := s.store.Latest()
	if !ok {
		return Update{ReferencePressure: s.reference}, false
	}
	update = Update{
		Latest:            latest,
		Count:             s.store.Len(),
		ReferencePressure: s.reference,
	}
	// The store is non-empty here, so Range cannot fail.
	update.Pressure, _ = s.store.Range(model.ChannelPressure)
	update.AccelZ, _ = s.store.Range(model.ChannelAccelZ)
	update.VerticalSpeed, _ = s.store.Range(model.ChannelVerticalSpeed)
	update.Altitude, _ = s.store.Range(model.ChannelAltitude)
	return update, true
}

func (s *Session) setState(state model.TrackingState) {
	if s.state == state {
		return
	}
	s.state = state
	for _, o := range s.observers {
		o.StateChanged(state)
	}
}
