package monitor

import (
	"context"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/presentation/interaction"
)

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// RenderWithState draws the dashboard with the given interaction state
	RenderWithState(metrics *model.DashboardMetrics, state model.InteractionState)
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// Streamer publishes session events to remote clients.
type Streamer interface {
	session.Observer
	Run(ctx context.Context)
	Serve(ctx context.Context, addr string) error
	Clients() int
}

// FlightRecorder persists tracked flights.
type FlightRecorder interface {
	session.Observer
	Close() error
}
