package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/data/source"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// openSource opens the line source selected by the configuration.
var openSource = func(c *Config) (source.LineSource, error) {
	switch c.Source {
	case SourceFile:
		util.LogInfof("Replaying %s", c.File)
		return source.OpenFile(c.File, time.Duration(c.ReplayInterval))
	case SourceTail:
		util.LogInfof("Following %s", c.File)
		return source.NewTailSource(c.File, c.FromStart)
	case SourceSerial:
		util.LogInfof("Opening serial port %s at %d baud", c.Serial.Port, c.Serial.BaudRate)
		return source.OpenSerial(c.Serial)
	case SourceStdin:
		return source.NewReaderSource("stdin", os.Stdin, 0), nil
	default:
		return nil, fmt.Errorf("unknown source %q", c.Source)
	}
}

// sourceLabel names the source for the dashboard header.
func sourceLabel(c *Config, src source.LineSource) string {
	switch c.Source {
	case SourceStdin:
		return string(SourceStdin)
	case SourceFile, SourceTail:
		return fmt.Sprintf("%s:%s", c.Source, filepath.Base(src.Name()))
	default:
		return fmt.Sprintf("%s:%s", c.Source, src.Name())
	}
}
