// Package source produces raw telemetry lines from readers, growing files
// and serial ports.
package source

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/util"
)

// ErrClosed is returned by operations on a source after Close.
var ErrClosed = errors.New("source: closed")

// maxLineLength bounds a single telemetry line.
const maxLineLength = 64 * 1024

// LineSource delivers newline-terminated telemetry lines. The Lines channel
// is closed when the source ends; Err then reports why, nil on a clean end.
type LineSource interface {
	Name() string
	Lines() <-chan string
	Err() error
	Close() error
}

// stream is the channel plumbing shared by every source. The producer
// goroutine emits lines and calls finish exactly once.
type stream struct {
	name      string
	lines     chan string
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

func newStream(name string, buffer int) *stream {
	return &stream{
		name:  name,
		lines: make(chan string, buffer),
		done:  make(chan struct{}),
	}
}

func (s *stream) Name() string         { return s.name }
func (s *stream) Lines() <-chan string { return s.lines }

func (s *stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// emit hands a line to the consumer. It returns false once the source has
// been closed.
func (s *stream) emit(line string) bool {
	select {
	case s.lines <- line:
		return true
	case <-s.done:
		return false
	}
}

func (s *stream) finish(err error) {
	if err != nil && !errors.Is(err, io.EOF) && !s.closed() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
	close(s.lines)
}

// stop signals the producer to end. It reports whether this call closed it.
func (s *stream) stop() bool {
	stopped := false
	s.closeOnce.Do(func() {
		close(s.done)
		stopped = true
	})
	return stopped
}

func (s *stream) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// scanLines emits every line of r until EOF, a read error or Close. A
// positive interval is waited between consecutive lines. A line longer than
// maxLineLength is discarded up to its newline and scanning resumes.
func (s *stream) scanLines(r io.Reader, interval time.Duration) error {
	reader := bufio.NewReaderSize(r, 4096)
	var line []byte
	discarding := false
	first := true

	emitLine := func() bool {
		text := strings.TrimRight(string(bytes.TrimSuffix(line, []byte("\n"))), "\r")
		line = line[:0]
		if interval > 0 && !first && !s.wait(interval) {
			return false
		}
		first = false
		return s.emit(text)
	}

	for {
		chunk, err := reader.ReadSlice('\n')
		if !discarding {
			line = append(line, chunk...)
			if len(line) > maxLineLength {
				util.LogWarnf("Source %s: discarding a line longer than %d bytes", s.name, maxLineLength)
				line = line[:0]
				discarding = true
			}
		}

		switch {
		case err == nil:
			if discarding {
				discarding = false
				continue
			}
			if !emitLine() {
				return nil
			}
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		default:
			if !errors.Is(err, io.EOF) {
				return err
			}
			if len(line) > 0 && !discarding {
				emitLine()
			}
			return nil
		}
	}
}

// wait sleeps for d, returning false if the source is closed meanwhile.
func (s *stream) wait(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.done:
		return false
	}
}
