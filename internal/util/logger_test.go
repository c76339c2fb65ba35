package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger, _ := NewLogger(LoggerConfig{Level: level, Console: true})
	logger.outputs = []Output{NewConsoleOutput(buf, format)}
	return logger, buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	logger, buf := newBufferLogger("warn", FormatText)

	logger.Info("hidden")
	logger.Warnf("shown %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 1")
}

func TestLoggerTextFieldsSorted(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)

	logger.With(F("source", "serial")).Debug("sample", F("b", 2), F("a", 1))

	assert.True(t, strings.HasSuffix(strings.TrimSpace(buf.String()), "[DEBUG] sample a=1 b=2 source=serial"))
}

func TestLoggerJSON(t *testing.T) {
	logger, buf := newBufferLogger("info", FormatJSON)

	logger.Info("tracking started", F("reference", 101325.0))

	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "tracking started", entry.Message)
	assert.Equal(t, 101325.0, entry.Fields["reference"])
}

func TestNewLoggerRequiresDestination(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "info"})
	assert.Error(t, err)

	_, err = NewLogger(LoggerConfig{Console: true, FileFormat: "xml"})
	assert.Error(t, err)
}

func TestParseLogFormat(t *testing.T) {
	for name, want := range map[string]LogFormat{"": FormatText, "TEXT": FormatText, "json": FormatJSON} {
		got, err := ParseLogFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestFileOutputCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger(LoggerConfig{Level: "info", File: path})
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello")
}

func TestFileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := NewLogger(LoggerConfig{Level: "debug", File: path, FileFormat: FormatJSON})
	require.NoError(t, err)
	logger.With(F("port", "/dev/ttyUSB0")).Debug("serial opened")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry LogEntry
	require.NoError(t, sonic.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "DEBUG", entry.Level)
	assert.Equal(t, "/dev/ttyUSB0", entry.Fields["port"])
}

func TestGlobalLoggerHelpers(t *testing.T) {
	logger, buf := newBufferLogger("debug", FormatText)
	SetLogger(logger)
	defer SetLogger(nil)

	LogDebugf("dropped %s", "line")
	LogError("broken", F("code", 3))

	assert.Contains(t, buf.String(), "dropped line")
	assert.Contains(t, buf.String(), "broken code=3")

	SetLogger(nil)
	LogInfo("nobody hears this")
	assert.NotContains(t, buf.String(), "nobody")
}

func TestEncodeTimestamp(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "m",
	}
	line, err := entry.Encode(FormatText)
	require.NoError(t, err)
	assert.Equal(t, "2024/05/01 10:00:00.000 [INFO] m", string(line))
}
