package monitor

import (
	"fmt"
	"sync"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
)

// StateManager manages operator state in a thread-safe manner. It is the
// session's Controls and follows its lifecycle as an Observer.
type StateManager struct {
	mu sync.RWMutex

	// Interaction state
	interactionState model.InteractionState

	// Operator inputs
	referencePressure float64
	autoLock          bool
	tracking          bool
}

var (
	_ session.Controls = (*StateManager)(nil)
	_ session.Observer = (*StateManager)(nil)
)

// NewStateManager creates a new StateManager instance
func NewStateManager(referencePressure float64, autoLock bool, layoutStyle int) *StateManager {
	return &StateManager{
		referencePressure: referencePressure,
		autoLock:          autoLock,
		interactionState:  model.InteractionState{LayoutStyle: layoutStyle},
	}
}

// ReferencePressure returns the reference input captured by Start.
func (sm *StateManager) ReferencePressure() float64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.referencePressure
}

// AutoLockReference reports whether the reference follows the highest
// pressure seen.
func (sm *StateManager) AutoLockReference() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.autoLock
}

// ToggleAutoLock flips the auto-lock input and returns the new value.
func (sm *StateManager) ToggleAutoLock() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.autoLock = !sm.autoLock
	return sm.autoLock
}

// AdjustReference moves the reference input by steps of ReferenceStep.
// The input is frozen while tracking.
func (sm *StateManager) AdjustReference(steps int) (float64, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.tracking {
		return sm.referencePressure, fmt.Errorf("reference pressure can only be changed while idle")
	}
	next := sm.referencePressure + float64(steps)*constants.ReferenceStep
	if next <= 0 {
		return sm.referencePressure, fmt.Errorf("reference pressure must stay positive")
	}
	sm.referencePressure = next
	return next, nil
}

// SetReference stores a reference chosen by the session, e.g. a ground
// lock, so that the next Start keeps it.
func (sm *StateManager) SetReference(pressure float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.referencePressure = pressure
}

// Tracking reports the last lifecycle state seen.
func (sm *StateManager) Tracking() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.tracking
}

// SampleAvailable keeps an auto-locked reference, so that the next Start
// resumes from the ground the session locked to.
func (sm *StateManager) SampleAvailable(update session.Update) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.autoLock && update.ReferencePressure > 0 {
		sm.referencePressure = update.ReferencePressure
	}
}

func (sm *StateManager) StateChanged(state model.TrackingState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tracking = state == model.StateTracking
}

func (sm *StateManager) Cleared() {}

// GetInteractionState returns current interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	// Return a copy of the state
	return sm.interactionState
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interactionState)
}

// SetStatus replaces the status line message.
func (sm *StateManager) SetStatus(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = msg
	})
}
