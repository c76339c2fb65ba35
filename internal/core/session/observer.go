package session

import "github.com/penwyp/go-flight-monitor/internal/core/model"

// Controls supplies the operator inputs a session reads: the reference
// pressure captured at Start, and the auto-lock toggle read on every ingest.
type Controls interface {
	ReferencePressure() float64
	AutoLockReference() bool
}

// StaticControls is a fixed Controls value, used by headless replays.
type StaticControls struct {
	Reference float64
	AutoLock  bool
}

func (c StaticControls) ReferencePressure() float64 { return c.Reference }
func (c StaticControls) AutoLockReference() bool    { return c.AutoLock }

// Update is published after every accepted sample.
type Update struct {
	Latest            model.DerivedSample `json:"latest"`
	Count             int                 `json:"count"`
	ReferencePressure float64             `json:"referencePressure"`
	Pressure          model.Range         `json:"pressure"`
	AccelZ            model.Range         `json:"accelZ"`
	VerticalSpeed     model.Range         `json:"verticalSpeed"`
	Altitude          model.Range         `json:"altitude"`
}

// Observer receives session notifications on the goroutine that drives the
// session. Implementations that hand data to other goroutines must not block.
type Observer interface {
	SampleAvailable(update Update)
	StateChanged(state model.TrackingState)
	Cleared()
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnSample func(Update)
	OnState  func(model.TrackingState)
	OnClear  func()
}

func (f ObserverFuncs) SampleAvailable(u Update) {
	if f.OnSample != nil {
		f.OnSample(u)
	}
}

func (f ObserverFuncs) StateChanged(s model.TrackingState) {
	if f.OnState != nil {
		f.OnState(s)
	}
}

func (f ObserverFuncs) Cleared() {
	if f.OnClear != nil {
		f.OnClear()
	}
}
