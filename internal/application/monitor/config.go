package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/penwyp/go-flight-monitor/internal/core/constants"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/data/source"
	"github.com/penwyp/go-flight-monitor/internal/presentation/layout"
)

// SourceKind selects where telemetry lines come from.
type SourceKind string

const (
	SourceStdin  SourceKind = "stdin"
	SourceFile   SourceKind = "file"   // replay a recording
	SourceTail   SourceKind = "tail"   // follow a growing file
	SourceSerial SourceKind = "serial" // read a serial port
)

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config contains configuration for the monitor command
type Config struct {
	// Line source
	Source         SourceKind          `yaml:"source"`
	File           string              `yaml:"file"`
	ReplayInterval Duration            `yaml:"replay_interval"`
	FromStart      bool                `yaml:"from_start"`
	Serial         source.SerialConfig `yaml:"serial"`

	// Derivation
	ReferencePressure    float64 `yaml:"reference_pressure"`
	ReferenceTemperature float64 `yaml:"reference_temperature"`
	SpeedTemperature     float64 `yaml:"speed_temperature"`
	DisplayScale         float64 `yaml:"display_scale"`
	Capacity             int     `yaml:"capacity"`
	AutoLock             bool    `yaml:"auto_lock"`
	AutoStart            bool    `yaml:"auto_start"`

	// Display settings
	UIRefreshRate float64 `yaml:"ui_refresh_rate"` // frames per second
	Layout        string  `yaml:"layout"`          // full, minimal
	TimeFormat    string  `yaml:"time_format"`     // 24h, 12h
	Width         int     `yaml:"width"`

	// Outputs
	ListenAddr    string   `yaml:"listen"`
	RecordPath    string   `yaml:"record_db"`
	Headless      bool     `yaml:"headless"`
	StatsInterval Duration `yaml:"stats_interval"`
}

// Validate fills defaults and checks the configuration.
func (c *Config) Validate() error {
	if c.Source == "" {
		switch {
		case c.File != "":
			c.Source = SourceFile
		case c.Serial.Port != "":
			c.Source = SourceSerial
		default:
			c.Source = SourceStdin
		}
	}
	switch c.Source {
	case SourceStdin:
	case SourceFile, SourceTail:
		if c.File == "" {
			return fmt.Errorf("source %q needs a file", c.Source)
		}
	case SourceSerial:
		if err := c.Serial.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source %q (want stdin, file, tail or serial)", c.Source)
	}
	if c.ReplayInterval < 0 {
		return fmt.Errorf("replay interval must not be negative")
	}

	if c.ReferencePressure == 0 {
		c.ReferencePressure = constants.SeaLevelPressure
	}
	if c.ReferencePressure < 0 {
		return fmt.Errorf("reference pressure must be positive, got %.2f", c.ReferencePressure)
	}

	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = 4
	}
	if c.UIRefreshRate < 0 || c.UIRefreshRate > 60 {
		return fmt.Errorf("ui refresh rate must be within (0, 60], got %.2f", c.UIRefreshRate)
	}
	if c.Layout == "" {
		c.Layout = "full"
	}
	if c.Layout != "full" && c.Layout != "minimal" {
		return fmt.Errorf("unknown layout %q (want full or minimal)", c.Layout)
	}
	if c.TimeFormat == "" {
		c.TimeFormat = "24h"
	}
	if c.TimeFormat != "24h" && c.TimeFormat != "12h" {
		return fmt.Errorf("unknown time format %q (want 24h or 12h)", c.TimeFormat)
	}
	if c.StatsInterval == 0 {
		c.StatsInterval = Duration(5 * time.Second)
	}

	sc := c.SessionConfig()
	if err := sc.Validate(); err != nil {
		return err
	}
	c.Capacity = sc.Capacity
	return nil
}

// SessionConfig returns the model parameters for the telemetry session.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		ReferenceTemperature: c.ReferenceTemperature,
		SpeedTemperature:     c.SpeedTemperature,
		DisplayScale:         c.DisplayScale,
		Capacity:             c.Capacity,
	}
}

// LayoutStyle maps Layout to a layout style index.
func (c *Config) LayoutStyle() int {
	if c.Layout == "minimal" {
		return layout.StyleMinimal
	}
	return layout.StyleFull
}

// RefreshInterval is the time between dashboard frames.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.UIRefreshRate)
}

// LoadConfigFile reads a YAML configuration. Unknown keys are rejected and
// an empty file yields a zero Config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}
