package session

import (
	"fmt"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
)

// Config holds the model parameters of a telemetry session.
type Config struct {
	// ReferenceTemperature is T0 of the altitude model, in kelvin.
	ReferenceTemperature float64
	// SpeedTemperature is the air temperature assumed by the speed model, in kelvin.
	SpeedTemperature float64
	// DisplayScale multiplies the raw vertical speed before rounding.
	DisplayScale float64
	// Capacity is the number of samples retained per channel.
	Capacity int
}

// Validate fills defaults and rejects values the models cannot use.
func (c *Config) Validate() error {
	if c.ReferenceTemperature == 0 {
		c.ReferenceTemperature = constants.StandardTemperature
	}
	if c.SpeedTemperature == 0 {
		c.SpeedTemperature = constants.StandardTemperature
	}
	if c.DisplayScale == 0 {
		c.DisplayScale = constants.DisplayScale
	}
	if c.Capacity == 0 {
		c.Capacity = constants.DefaultCapacity
	}
	if c.ReferenceTemperature < 0 || c.SpeedTemperature < 0 {
		return fmt.Errorf("temperatures must be in kelvin, got %.2f and %.2f", c.ReferenceTemperature, c.SpeedTemperature)
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	return nil
}
