package monitor

import (
	"sync"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
)

// clockInterval redraws an unchanged dashboard so the header clock moves.
const clockInterval = time.Second

// RefreshController decides when the dashboard needs a new frame. Session
// events mark it dirty; the UI ticker asks ShouldRender.
type RefreshController struct {
	mu         sync.Mutex
	dirty      bool
	lastRender time.Time
	renders    int
}

var _ session.Observer = (*RefreshController)(nil)

// NewRefreshController creates a controller that renders on first use.
func NewRefreshController() *RefreshController {
	return &RefreshController{dirty: true}
}

// MarkDirty requests a redraw on the next tick.
func (rc *RefreshController) MarkDirty() {
	rc.mu.Lock()
	rc.dirty = true
	rc.mu.Unlock()
}

// ShouldRender reports whether a frame is due at now.
func (rc *RefreshController) ShouldRender(now time.Time) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.dirty || now.Sub(rc.lastRender) >= clockInterval
}

// Rendered records a drawn frame.
func (rc *RefreshController) Rendered(now time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.dirty = false
	rc.lastRender = now
	rc.renders++
}

// Renders returns the number of frames drawn.
func (rc *RefreshController) Renders() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.renders
}

func (rc *RefreshController) SampleAvailable(session.Update)   { rc.MarkDirty() }
func (rc *RefreshController) StateChanged(model.TrackingState) { rc.MarkDirty() }
func (rc *RefreshController) Cleared()                         { rc.MarkDirty() }
