package model

import (
	"fmt"
	"strings"
)

// Vec3 is a triaxial reading.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RawSample is one validated telemetry line.
type RawSample struct {
	Time        float64 `json:"time"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Accel       Vec3    `json:"accel"`
	Gyro        Vec3    `json:"gyro"`
}

// DerivedSample is a RawSample augmented with the quantities computed from pressure.
type DerivedSample struct {
	RawSample
	Altitude      float64 `json:"altitude"`
	VerticalSpeed float64 `json:"verticalSpeed"`
}

// Position returns the plotting position. The vehicle has no horizontal
// position source, so only Z is populated.
func (s DerivedSample) Position() Vec3 {
	return Vec3{Z: s.Altitude}
}

// Value returns the reading stored on the given channel.
func (s DerivedSample) Value(ch Channel) float64 {
	switch ch {
	case ChannelTime:
		return s.Time
	case ChannelPressure:
		return s.Pressure
	case ChannelTemperature:
		return s.Temperature
	case ChannelAltitude:
		return s.Altitude
	case ChannelAccelX:
		return s.Accel.X
	case ChannelAccelY:
		return s.Accel.Y
	case ChannelAccelZ:
		return s.Accel.Z
	case ChannelGyroX:
		return s.Gyro.X
	case ChannelGyroY:
		return s.Gyro.Y
	case ChannelGyroZ:
		return s.Gyro.Z
	case ChannelVerticalSpeed:
		return s.VerticalSpeed
	default:
		return 0
	}
}

// Channel identifies one time series in the rolling store.
type Channel int

const (
	ChannelTime Channel = iota
	ChannelPressure
	ChannelTemperature
	ChannelAltitude
	ChannelAccelX
	ChannelAccelY
	ChannelAccelZ
	ChannelGyroX
	ChannelGyroY
	ChannelGyroZ
	ChannelVerticalSpeed

	// NumChannels is the number of channels kept per sample.
	NumChannels = int(ChannelVerticalSpeed) + 1
)

var channelNames = [NumChannels]string{
	"time",
	"pressure",
	"temperature",
	"altitude",
	"accel.x",
	"accel.y",
	"accel.z",
	"gyro.x",
	"gyro.y",
	"gyro.z",
	"vertical_speed",
}

func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// Valid reports whether c names a known channel.
func (c Channel) Valid() bool {
	return c >= 0 && int(c) < NumChannels
}

// ParseChannel resolves a channel name, case-insensitively.
func ParseChannel(name string) (Channel, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for i, n := range channelNames {
		if n == lower {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}

// Channels returns every channel in storage order.
func Channels() []Channel {
	out := make([]Channel, NumChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// Range is the min/max summary of a channel over the retained window.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}
