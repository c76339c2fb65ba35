package parser

import (
	"testing"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValid(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected model.RawSample
	}{
		{
			name: "full line with trailing delimiter",
			line: "0;101325;293.15;0;0;9.8;0;0;0;",
			expected: model.RawSample{
				Time: 0, Pressure: 101325, Temperature: 293.15,
				Accel: model.Vec3{Z: 9.8},
			},
		},
		{
			name: "full line without trailing delimiter",
			line: "1.5;100000;20;0.1;-0.2;9.7;1;2;3",
			expected: model.RawSample{
				Time: 1.5, Pressure: 100000, Temperature: 20,
				Accel: model.Vec3{X: 0.1, Y: -0.2, Z: 9.7},
				Gyro:  model.Vec3{X: 1, Y: 2, Z: 3},
			},
		},
		{
			name: "minimum five fields",
			line: "2;99000;18;0.5;0.6",
			expected: model.RawSample{
				Time: 2, Pressure: 99000, Temperature: 18,
				Accel: model.Vec3{X: 0.5, Y: 0.6},
			},
		},
		{
			name: "whitespace around fields",
			line: "  3 ; 98000 ;\t17; 1 ; 2 ; 3 ;\r",
			expected: model.RawSample{
				Time: 3, Pressure: 98000, Temperature: 17,
				Accel: model.Vec3{X: 1, Y: 2, Z: 3},
			},
		},
		{
			name: "signed and fractional values",
			line: "+4;-1;-.5;1e2;0;0;0;0;-0.25;",
			expected: model.RawSample{
				Time: 4, Pressure: -1, Temperature: -0.5,
				Accel: model.Vec3{X: 100},
				Gyro:  model.Vec3{Z: -0.25},
			},
		},
		{
			name: "extra numeric fields are ignored",
			line: "5;97000;16;0;0;0;0;0;0;42;43;",
			expected: model.RawSample{
				Time: 5, Pressure: 97000, Temperature: 16,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sample)
		})
	}
}

func TestParseLineMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"only delimiters", ";;;;"},
		{"four fields", "1;2;3;4"},
		{"four fields with trailing delimiter", "1;2;3;4;"},
		{"non numeric field", "1;abc;3;4;5"},
		{"empty middle field", "1;;3;4;5;6"},
		{"two trailing delimiters", "1;2;3;4;5;;"},
		{"nan", "1;NaN;3;4;5"},
		{"infinity", "1;2;+Inf;4;5"},
		{"non numeric extra field", "1;2;3;4;5;6;7;8;9;x"},
		{"overflow", "1;1e400;3;4;5"},
		{"comma decimal", "1;101325,5;3;4;5"},
		{"hex float", "0x1p4;101325;1;2;3"},
		{"signed hex float", "1;-0X1.8p3;3;4;5"},
		{"hex extra field", "1;2;3;4;5;6;7;8;9;0x10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFormatLineRoundTrip(t *testing.T) {
	s := model.RawSample{
		Time: 12.25, Pressure: 100870.5, Temperature: 21.4,
		Accel: model.Vec3{X: 0.01, Y: -0.02, Z: 9.81},
		Gyro:  model.Vec3{X: 0.5, Y: 0, Z: -0.5},
	}

	line := FormatLine(s)
	assert.Equal(t, "12.25;100870.5;21.4;0.01;-0.02;9.81;0.5;0;-0.5;", line)

	parsed, err := ParseLine(line)
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}
