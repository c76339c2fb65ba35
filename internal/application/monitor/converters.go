package monitor

import (
	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
)

// buildMetrics converts the session snapshot and operator state into what
// the dashboard draws.
func buildMetrics(s *session.Session, sm *StateManager, sourceName string, streamClients int) *model.DashboardMetrics {
	stats := s.Stats()
	metrics := &model.DashboardMetrics{
		State:             s.State(),
		ReferencePressure: s.ReferencePressure(),
		AutoLock:          sm.AutoLockReference(),
		Source:            sourceName,
		Capacity:          s.Store().Capacity(),
		Accepted:          stats.Accepted,
		Dropped:           stats.Dropped,
		Ignored:           stats.Ignored,
		StreamClients:     streamClients,
	}
	// While idle the dashboard shows the reference the next Start will use.
	if !s.Tracking() {
		metrics.ReferencePressure = sm.ReferencePressure()
	}

	update, ok := s.Snapshot()
	if !ok {
		return metrics
	}
	applyUpdate(metrics, update)
	metrics.AltitudeTrace = s.Store().Tail(model.ChannelAltitude, constants.SparklineWidth)
	return metrics
}

func applyUpdate(metrics *model.DashboardMetrics, update session.Update) {
	latest := update.Latest
	metrics.Latest = &latest
	metrics.Count = update.Count
	metrics.HasRanges = update.Count > 0
	metrics.Pressure = update.Pressure
	metrics.AccelZ = update.AccelZ
	metrics.VerticalSpeed = update.VerticalSpeed
	metrics.Altitude = update.Altitude
}
