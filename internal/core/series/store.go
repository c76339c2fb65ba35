// Package series keeps a bounded, per-channel history of derived samples.
package series

import (
	"errors"
	"fmt"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/model"
)

// ErrEmptyChannel is returned by summaries queried on a store with no samples.
var ErrEmptyChannel = errors.New("series: channel is empty")

// Store is a fixed-capacity ring buffer holding one column per channel.
// Every Append writes all columns, so the columns always have equal length,
// and once full the oldest sample is overwritten in lock-step.
//
// Store is not safe for concurrent use; it is owned by a single session.
type Store struct {
	capacity int
	columns  [model.NumChannels][]float64
	start    int // index of the oldest sample once the buffer has wrapped
	length   int
}

// NewStore returns an empty store retaining at most capacity samples.
// A non-positive capacity selects constants.DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = constants.DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// Capacity returns the maximum number of retained samples.
func (s *Store) Capacity() int { return s.capacity }

// Len returns the number of retained samples.
func (s *Store) Len() int { return s.length }

// Append stores sample on every channel, evicting the oldest sample when full.
func (s *Store) Append(sample model.DerivedSample) {
	if s.length < s.capacity {
		// Columns grow lazily until the buffer first fills.
		for ch := range s.columns {
			s.columns[ch] = append(s.columns[ch], sample.Value(model.Channel(ch)))
		}
		s.length++
		return
	}
	for ch := range s.columns {
		s.columns[ch][s.start] = sample.Value(model.Channel(ch))
	}
	s.start = (s.start + 1) % s.capacity
}

// index maps a logical position (0 = oldest) to a physical slot.
func (s *Store) index(i int) int {
	return (s.start + i) % s.capacity
}

// At returns the i-th retained sample, oldest first.
func (s *Store) At(i int) (model.DerivedSample, error) {
	if i < 0 || i >= s.length {
		return model.DerivedSample{}, fmt.Errorf("series: index %d out of range [0,%d)", i, s.length)
	}
	return s.sampleAt(s.index(i)), nil
}

// Latest returns the most recently appended sample.
func (s *Store) Latest() (model.DerivedSample, bool) {
	if s.length == 0 {
		return model.DerivedSample{}, false
	}
	return s.sampleAt(s.index(s.length - 1)), true
}

func (s *Store) sampleAt(slot int) model.DerivedSample {
	c := &s.columns
	return model.DerivedSample{
		RawSample: model.RawSample{
			Time:        c[model.ChannelTime][slot],
			Pressure:    c[model.ChannelPressure][slot],
			Temperature: c[model.ChannelTemperature][slot],
			Accel: model.Vec3{
				X: c[model.ChannelAccelX][slot],
				Y: c[model.ChannelAccelY][slot],
				Z: c[model.ChannelAccelZ][slot],
			},
			Gyro: model.Vec3{
				X: c[model.ChannelGyroX][slot],
				Y: c[model.ChannelGyroY][slot],
				Z: c[model.ChannelGyroZ][slot],
			},
		},
		Altitude:      c[model.ChannelAltitude][slot],
		VerticalSpeed: c[model.ChannelVerticalSpeed][slot],
	}
}

// Min returns the smallest retained value of ch.
func (s *Store) Min(ch model.Channel) (float64, error) {
	r, err := s.Range(ch)
	return r.Min, err
}

// Max returns the largest retained value of ch.
func (s *Store) Max(ch model.Channel) (float64, error) {
	r, err := s.Range(ch)
	return r.Max, err
}

// Range scans the retained window of ch once and returns both extremes.
func (s *Store) Range(ch model.Channel) (model.Range, error) {
	if !ch.Valid() {
		return model.Range{}, fmt.Errorf("series: unknown channel %d", int(ch))
	}
	if s.length == 0 {
		return model.Range{}, ErrEmptyChannel
	}
	col := s.columns[ch][:s.length]
	r := model.Range{Min: col[0], Max: col[0]}
	for _, v := range col[1:] {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	return r, nil
}

// Values returns a copy of ch, oldest first.
func (s *Store) Values(ch model.Channel) []float64 {
	return s.Tail(ch, s.length)
}

// Tail returns a copy of the newest n values of ch, oldest first.
func (s *Store) Tail(ch model.Channel, n int) []float64 {
	if !ch.Valid() || n <= 0 || s.length == 0 {
		return []float64{}
	}
	if n > s.length {
		n = s.length
	}
	out := make([]float64, n)
	col := s.columns[ch]
	for i := 0; i < n; i++ {
		out[i] = col[s.index(s.length-n+i)]
	}
	return out
}

// Clear discards every retained sample.
func (s *Store) Clear() {
	for ch := range s.columns {
		s.columns[ch] = nil
	}
	s.start = 0
	s.length = 0
}
