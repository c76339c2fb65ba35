package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
)

func TestRefreshController(t *testing.T) {
	rc := NewRefreshController()
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, rc.ShouldRender(start), "first frame is always due")
	rc.Rendered(start)
	assert.Equal(t, 1, rc.Renders())

	assert.False(t, rc.ShouldRender(start.Add(100*time.Millisecond)))
	assert.True(t, rc.ShouldRender(start.Add(clockInterval)), "clock keeps moving")

	rc.MarkDirty()
	assert.True(t, rc.ShouldRender(start.Add(time.Millisecond)))
}

func TestRefreshControllerFollowsSession(t *testing.T) {
	tests := []struct {
		name   string
		notify func(o session.Observer)
	}{
		{"sample", func(o session.Observer) { o.SampleAvailable(session.Update{}) }},
		{"state", func(o session.Observer) { o.StateChanged(model.StateTracking) }},
		{"clear", func(o session.Observer) { o.Cleared() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewRefreshController()
			now := time.Now()
			rc.Rendered(now)
			assert.False(t, rc.ShouldRender(now))

			tt.notify(rc)
			assert.True(t, rc.ShouldRender(now))
		})
	}
}
