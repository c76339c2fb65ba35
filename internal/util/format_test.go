package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected string
	}{
		{name: "zero", input: 0, expected: "0"},
		{name: "hundreds", input: 999, expected: "999"},
		{name: "exactly 1000", input: 1000, expected: "1.0K"},
		{name: "thousands", input: 1500, expected: "1.5K"},
		{name: "full buffer", input: 100000, expected: "100.0K"},
		{name: "millions", input: 2500000, expected: "2.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatNumber(tt.input))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "100,000", FormatCount(100000))
	assert.Equal(t, "-1,234", FormatCount(-1234))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", FormatBytes(0))
	assert.Equal(t, "0 B", FormatBytes(-5))
	assert.Equal(t, "1.5 kB", FormatBytes(1500))
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0.0s"},
		{name: "negative clamps", seconds: -3, expected: "0.0s"},
		{name: "seconds", seconds: 12.34, expected: "12.3s"},
		{name: "minutes", seconds: 125, expected: "2m 05s"},
		{name: "hours", seconds: 3*3600 + 7*60, expected: "3h 07m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatElapsed(tt.seconds))
		})
	}
}

func TestFormatQuantities(t *testing.T) {
	assert.Equal(t, "101325.00 Pa", FormatPressure(101325))
	assert.Equal(t, "+8.43 m", FormatAltitude(8.4321))
	assert.Equal(t, "-1.00 m", FormatAltitude(-1))
	assert.Equal(t, "+12", FormatSpeed(12))
	assert.Equal(t, "-3", FormatSpeed(-3))
	assert.Equal(t, "1.00 .. 2.50", FormatRange("%.2f", 1, 2.5))
}
