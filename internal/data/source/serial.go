package source

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/util"
	"go.bug.st/serial"
)

// DefaultBaudRate matches the telemetry transmitter firmware.
const DefaultBaudRate = 115200

// SerialConfig describes how to open a telemetry serial port.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`    // none, odd, even
	StopBits int    `yaml:"stop_bits"` // 1 or 2
}

// Validate fills defaults and checks the line settings.
func (c *SerialConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("serial port is required")
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.Parity == "" {
		c.Parity = "none"
	}
	if c.StopBits == 0 {
		c.StopBits = 1
	}
	if c.BaudRate < 0 {
		return fmt.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.DataBits < 5 || c.DataBits > 8 {
		return fmt.Errorf("invalid data bits %d", c.DataBits)
	}
	if _, err := c.mode(); err != nil {
		return err
	}
	return nil
}

func (c *SerialConfig) mode() (*serial.Mode, error) {
	mode := &serial.Mode{BaudRate: c.BaudRate, DataBits: c.DataBits}

	switch strings.ToLower(c.Parity) {
	case "none":
		mode.Parity = serial.NoParity
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		return nil, fmt.Errorf("invalid parity %q", c.Parity)
	}

	switch c.StopBits {
	case 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits %d", c.StopBits)
	}
	return mode, nil
}

// openPort is replaced in tests.
var openPort = func(name string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(name, mode)
}

// SerialSource reads lines from a serial port.
type SerialSource struct {
	*stream
	port io.ReadCloser
}

// OpenSerial opens the port described by cfg and starts reading.
func OpenSerial(cfg SerialConfig) (*SerialSource, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := cfg.mode()

	port, err := openPort(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Port, err)
	}
	util.LogInfof("Opened serial port %s at %d baud", cfg.Port, cfg.BaudRate)

	ss := &SerialSource{stream: newStream(cfg.Port, 1024), port: port}
	go ss.run()
	return ss, nil
}

func (ss *SerialSource) run() {
	err := ss.scanLines(ss.port, 0)
	if err != nil && !ss.closed() {
		util.LogErrorf("Serial port %s read failed: %v", ss.name, err)
	}
	ss.finish(err)
}

// Close closes the port, which also unblocks a pending read.
func (ss *SerialSource) Close() error {
	if !ss.stop() {
		return ErrClosed
	}
	return ss.port.Close()
}

// ListPorts returns the serial ports present on the system, sorted.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	sort.Strings(ports)
	return ports, nil
}
