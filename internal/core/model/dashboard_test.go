package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackingStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "tracking", StateTracking.String())
}

func TestDashboardMetricsApogee(t *testing.T) {
	m := DashboardMetrics{}
	assert.Equal(t, 0.0, m.Apogee())

	m.HasRanges = true
	m.Altitude = Range{Min: -1, Max: 312.5}
	assert.Equal(t, 312.5, m.Apogee())
}

func TestDashboardMetricsFillPercent(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		capacity int
		expected float64
	}{
		{"no capacity", 10, 0, 0},
		{"empty", 0, 100, 0},
		{"half", 50, 100, 50},
		{"full", 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DashboardMetrics{Count: tt.count, Capacity: tt.capacity}
			assert.Equal(t, tt.expected, m.FillPercent())
		})
	}
}

func TestConfirmDialogCallbacks(t *testing.T) {
	confirmed, cancelled := false, false
	dialog := ConfirmDialog{
		Title:     "Clear",
		Message:   "Discard buffered samples?",
		OnConfirm: func() { confirmed = true },
		OnCancel:  func() { cancelled = true },
	}

	dialog.OnConfirm()
	assert.True(t, confirmed)
	assert.False(t, cancelled)

	dialog.OnCancel()
	assert.True(t, cancelled)
}

func TestLayoutParamClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)

	assert.Equal(t, "14:03:09", LayoutParam{Now: now}.Clock())
	assert.Equal(t, "2:03:09 PM", LayoutParam{Now: now, TimeFormat: "12h"}.Clock())
	assert.NotEmpty(t, LayoutParam{}.Clock())
}
