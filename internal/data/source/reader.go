package source

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/util"
)

// ReaderSource reads lines from an io.Reader such as stdin or a recording.
// A positive interval paces the lines for replays.
type ReaderSource struct {
	*stream
	closer io.Closer
}

// NewReaderSource starts reading r. r is not closed by Close.
func NewReaderSource(name string, r io.Reader, interval time.Duration) *ReaderSource {
	rs := &ReaderSource{stream: newStream(name, 256)}
	go rs.run(r, interval)
	return rs
}

// OpenFile replays a recording file, closing it when the source is closed.
func OpenFile(path string, interval time.Duration) (*ReaderSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	rs := &ReaderSource{stream: newStream(path, 256), closer: file}
	go rs.run(file, interval)
	return rs, nil
}

func (rs *ReaderSource) run(r io.Reader, interval time.Duration) {
	err := rs.scanLines(r, interval)
	util.LogDebugf("Reader source %s finished: %v", rs.name, err)
	rs.finish(err)
}

// Close stops reading and closes the underlying file, if owned.
func (rs *ReaderSource) Close() error {
	if !rs.stop() {
		return ErrClosed
	}
	if rs.closer != nil {
		return rs.closer.Close()
	}
	return nil
}
