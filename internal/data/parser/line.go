package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
)

// ErrMalformed marks a telemetry line that cannot be turned into a sample.
var ErrMalformed = errors.New("malformed telemetry line")

// ParseLine turns one delimited telemetry line into a RawSample.
//
// Fields are separated by ';' and trimmed; a single empty trailing field left
// by a trailing delimiter is ignored. At least five fields are required and
// every field, including any beyond the ninth, must be a finite number.
// Fields map positionally to time, pressure, temperature, accel x/y/z and
// gyro x/y/z; missing positions are zero.
func ParseLine(line string) (model.RawSample, error) {
	fields := strings.Split(line, constants.FieldDelimiter)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if n := len(fields); n > 0 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	if len(fields) < constants.MinFields {
		return model.RawSample{}, fmt.Errorf("%w: %d fields, need at least %d", ErrMalformed, len(fields), constants.MinFields)
	}

	var values [constants.SampleFields]float64
	for i, field := range fields {
		if hasHexPrefix(field) {
			return model.RawSample{}, fmt.Errorf("%w: field %d %q is not a decimal number", ErrMalformed, i+1, field)
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return model.RawSample{}, fmt.Errorf("%w: field %d %q is not a number", ErrMalformed, i+1, field)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return model.RawSample{}, fmt.Errorf("%w: field %d %q is not finite", ErrMalformed, i+1, field)
		}
		if i < len(values) {
			values[i] = v
		}
	}

	return model.RawSample{
		Time:        values[0],
		Pressure:    values[1],
		Temperature: values[2],
		Accel:       model.Vec3{X: values[3], Y: values[4], Z: values[5]},
		Gyro:        model.Vec3{X: values[6], Y: values[7], Z: values[8]},
	}, nil
}

// hasHexPrefix reports whether field uses the 0x form that ParseFloat
// would otherwise accept as a hexadecimal float.
func hasHexPrefix(field string) bool {
	field = strings.TrimLeft(field, "+-")
	return len(field) > 1 && field[0] == '0' && (field[1] == 'x' || field[1] == 'X')
}

// FormatLine renders a sample in the wire format accepted by ParseLine,
// with a trailing delimiter.
func FormatLine(s model.RawSample) string {
	values := []float64{
		s.Time, s.Pressure, s.Temperature,
		s.Accel.X, s.Accel.Y, s.Accel.Z,
		s.Gyro.X, s.Gyro.Y, s.Gyro.Z,
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		b.WriteString(constants.FieldDelimiter)
	}
	return b.String()
}
