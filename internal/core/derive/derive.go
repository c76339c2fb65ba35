// Package derive computes quantities the vehicle does not measure directly:
// barometric altitude and vertical speed from the pressure differential.
package derive

import (
	"math"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
)

// Altitude returns the height in meters above the level where the pressure
// equals referencePressure, using the standard-atmosphere barometric formula
// with referenceTemperature (kelvin) as T0.
//
// Non-positive pressures have no physical meaning and yield 0.
func Altitude(pressure, referencePressure, referenceTemperature float64) float64 {
	if pressure <= 0 || referencePressure <= 0 {
		return 0
	}
	ratio := pressure / referencePressure
	alt := (referenceTemperature / constants.LapseRate) * (1 - math.Pow(ratio, constants.BarometricExponent))
	return finiteOrZero(alt)
}

// PressureAt inverts Altitude: the pressure read at altitude meters above the
// reference level. It returns 0 above the top of the model atmosphere.
func PressureAt(altitude, referencePressure, referenceTemperature float64) float64 {
	base := 1 - constants.LapseRate*altitude/referenceTemperature
	if base <= 0 || referencePressure <= 0 {
		return 0
	}
	return finiteOrZero(referencePressure * math.Pow(base, 1/constants.BarometricExponent))
}

// VerticalSpeed estimates the climb rate from two consecutive pressure readings
// with the log-pressure-ratio form of the hypsometric equation.
//
// A previous pressure of zero or less means there is no prior reading yet and
// is replaced by referencePressure. Zero or negative elapsed time yields 0, as
// does any non-positive pressure after that substitution.
func VerticalSpeed(current, previous, deltaTime, temperature, referencePressure float64) float64 {
	if deltaTime <= 0 {
		return 0
	}
	if previous <= 0 {
		previous = referencePressure
	}
	if current <= 0 || previous <= 0 {
		return 0
	}
	k := -(constants.GasConstant * temperature) / (constants.Gravity * constants.MolarMass)
	v := k * math.Log(current/previous) / deltaTime / constants.SpeedDivisor
	return finiteOrZero(v)
}

// Quantize scales a raw vertical speed for display and rounds it half away
// from zero.
func Quantize(raw, scale float64) float64 {
	return finiteOrZero(math.Round(raw * scale))
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Engine derives samples with a fixed set of model parameters.
type Engine struct {
	// ReferenceTemperature is T0 of the altitude model, in kelvin.
	ReferenceTemperature float64
	// SpeedTemperature is the air temperature assumed by the speed model, in kelvin.
	SpeedTemperature float64
	// Scale multiplies the raw speed before rounding.
	Scale float64
}

// NewEngine returns an engine with the standard defaults.
func NewEngine() Engine {
	return Engine{
		ReferenceTemperature: constants.StandardTemperature,
		SpeedTemperature:     constants.StandardTemperature,
		Scale:                constants.DisplayScale,
	}
}

// Derive computes altitude and the quantized vertical speed of raw relative to
// the previous accepted reading. lastPressure and lastTime are zero before the
// first sample of a session.
func (e Engine) Derive(raw model.RawSample, referencePressure, lastPressure, lastTime float64) model.DerivedSample {
	speed := VerticalSpeed(raw.Pressure, lastPressure, raw.Time-lastTime, e.SpeedTemperature, referencePressure)
	return model.DerivedSample{
		RawSample:     raw,
		Altitude:      Altitude(raw.Pressure, referencePressure, e.ReferenceTemperature),
		VerticalSpeed: Quantize(speed, e.Scale),
	}
}
