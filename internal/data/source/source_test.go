package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// collect reads n lines or fails after timeout.
func collect(t *testing.T, src LineSource, n int, timeout time.Duration) []string {
	t.Helper()
	var got []string
	deadline := time.After(timeout)
	for len(got) < n {
		select {
		case line, ok := <-src.Lines():
			if !ok {
				return got
			}
			got = append(got, line)
		case <-deadline:
			t.Fatalf("timed out after %d of %d lines: %v", len(got), n, got)
		}
	}
	return got
}

func drainAll(src LineSource, timeout time.Duration) []string {
	var got []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-src.Lines():
			if !ok {
				return got
			}
			got = append(got, line)
		case <-deadline:
			return got
		}
	}
}

func TestReaderSource(t *testing.T) {
	src := NewReaderSource("stdin", strings.NewReader("a;1\r\nb;2\n\nc;3"), 0)

	got := drainAll(src, time.Second)

	assert.Equal(t, []string{"a;1", "b;2", "", "c;3"}, got)
	assert.NoError(t, src.Err())
	assert.Equal(t, "stdin", src.Name())
	assert.NoError(t, src.Close())
	assert.ErrorIs(t, src.Close(), ErrClosed)
}

func TestReaderSourcePacing(t *testing.T) {
	src := NewReaderSource("replay", strings.NewReader("1\n2\n3\n"), 20*time.Millisecond)
	defer src.Close()

	start := time.Now()
	got := drainAll(src, 2*time.Second)

	assert.Equal(t, []string{"1", "2", "3"}, got)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestReaderSourceCloseStopsProducer(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	src := NewReaderSource("pipe", r, 0)

	go w.Write([]byte("x\n"))
	assert.Equal(t, []string{"x"}, collect(t, src, 1, time.Second))

	require.NoError(t, src.Close())
	// a blocked reader is only released by its writer
	w.CloseWithError(io.ErrClosedPipe)
	drainAll(src, time.Second)
	assert.NoError(t, src.Err())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("device unplugged") }

func TestReaderSourceReportsReadError(t *testing.T) {
	src := NewReaderSource("broken", failingReader{}, 0)
	drainAll(src, time.Second)
	assert.EqualError(t, src.Err(), "device unplugged")
}

func TestReaderSourceSkipsOverlongLine(t *testing.T) {
	input := "0;101325;20;0;0;9.8\n" +
		strings.Repeat("x", 70*1024) + "\n" +
		"1;101300;20;0;0;9.8\n" +
		strings.Repeat("y", maxLineLength+10) +
		"\n2;101280;20;0;0;9.8"
	src := NewReaderSource("noisy", strings.NewReader(input), 0)

	got := drainAll(src, time.Second)

	assert.Equal(t, []string{
		"0;101325;20;0;0;9.8",
		"1;101300;20;0;0;9.8",
		"2;101280;20;0;0;9.8",
	}, got)
	assert.NoError(t, src.Err())
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.tlm")
	require.NoError(t, os.WriteFile(path, []byte("0;101325;20;0;0;9.8;0;0;0;\n"), 0644))

	src, err := OpenFile(path, 0)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"0;101325;20;0;0;9.8;0;0;0;"}, drainAll(src, time.Second))

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.tlm"), 0)
	assert.Error(t, err)
}

func appendTo(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestTailSourceFollowsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.tlm")
	appendTo(t, path, "old\n")

	src, err := NewTailSource(path, false)
	require.NoError(t, err)
	defer src.Close()

	appendTo(t, path, "one\ntw")
	assert.Equal(t, []string{"one"}, collect(t, src, 1, 3*time.Second))

	appendTo(t, path, "o\r\nthree\n")
	assert.Equal(t, []string{"two", "three"}, collect(t, src, 2, 3*time.Second))
}

func TestTailSourceFromStartAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.tlm")
	appendTo(t, path, "first\nsecond\n")

	src, err := NewTailSource(path, true)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"first", "second"}, collect(t, src, 2, 3*time.Second))

	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0644))
	assert.Equal(t, []string{"new"}, collect(t, src, 1, 3*time.Second))
}

func TestTailSourceWaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.tlm")

	src, err := NewTailSource(path, false)
	require.NoError(t, err)

	appendTo(t, path, "hello\n")
	assert.Equal(t, []string{"hello"}, collect(t, src, 1, 3*time.Second))

	require.NoError(t, src.Close())
	drainAll(src, time.Second)
	assert.ErrorIs(t, src.Close(), ErrClosed)
}

func TestNewTailSourceMissingDirectory(t *testing.T) {
	_, err := NewTailSource(filepath.Join(t.TempDir(), "nope", "x.tlm"), false)
	assert.Error(t, err)
}

func TestSerialConfigValidate(t *testing.T) {
	cfg := SerialConfig{Port: "/dev/ttyUSB0"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultBaudRate, cfg.BaudRate)
	assert.Equal(t, 8, cfg.DataBits)

	mode, err := cfg.mode()
	require.NoError(t, err)
	assert.Equal(t, serial.NoParity, mode.Parity)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)

	bad := []SerialConfig{
		{},
		{Port: "p", BaudRate: -1},
		{Port: "p", DataBits: 9},
		{Port: "p", Parity: "mark"},
		{Port: "p", StopBits: 3},
	}
	for _, c := range bad {
		assert.Error(t, c.Validate(), "%+v", c)
	}
}

func TestSerialSource(t *testing.T) {
	r, w := io.Pipe()
	var gotPort string
	var gotMode *serial.Mode
	prev := openPort
	openPort = func(name string, mode *serial.Mode) (io.ReadCloser, error) {
		gotPort, gotMode = name, mode
		return r, nil
	}
	defer func() { openPort = prev }()

	src, err := OpenSerial(SerialConfig{Port: "/dev/ttyACM0", BaudRate: 9600, Parity: "even", StopBits: 2})
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", gotPort)
	assert.Equal(t, 9600, gotMode.BaudRate)
	assert.Equal(t, serial.EvenParity, gotMode.Parity)
	assert.Equal(t, serial.TwoStopBits, gotMode.StopBits)

	go w.Write([]byte("0;101325;20;0;0;9.8;0;0;0;\r\n"))
	assert.Equal(t, []string{"0;101325;20;0;0;9.8;0;0;0;"}, collect(t, src, 1, time.Second))

	require.NoError(t, src.Close())
	drainAll(src, time.Second)
	assert.NoError(t, src.Err())
}

func TestOpenSerialError(t *testing.T) {
	prev := openPort
	openPort = func(string, *serial.Mode) (io.ReadCloser, error) {
		return nil, errors.New("no such device")
	}
	defer func() { openPort = prev }()

	_, err := OpenSerial(SerialConfig{Port: "/dev/none"})
	assert.ErrorContains(t, err, "no such device")
}
