package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// tailPollInterval re-checks the file between events, since some platforms
// coalesce or drop writes to the same file.
const tailPollInterval = 500 * time.Millisecond

// TailSource follows a growing file, like tail -f. Only complete lines are
// emitted; a partial last line is held until its newline arrives. A file
// that shrinks is treated as truncated and read again from the start.
type TailSource struct {
	*stream
	path    string
	watcher *fsnotify.Watcher

	file    *os.File
	offset  int64
	pending []byte
}

// NewTailSource watches path. With fromStart the existing content is
// emitted first; otherwise only lines written after the call are.
func NewTailSource(path string, fromStart bool) (*TailSource, error) {
	path = filepath.Clean(path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// The directory is watched so that re-created files are picked up.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	ts := &TailSource{
		stream:  newStream(path, 256),
		path:    path,
		watcher: watcher,
	}
	if err := ts.open(fromStart); err != nil && !errors.Is(err, os.ErrNotExist) {
		watcher.Close()
		return nil, err
	}

	go ts.run()
	return ts, nil
}

func (ts *TailSource) open(fromStart bool) error {
	file, err := os.Open(ts.path)
	if err != nil {
		return err
	}
	ts.file = file
	ts.offset = 0
	ts.pending = ts.pending[:0]
	if !fromStart {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}
		ts.offset = end
	}
	return nil
}

func (ts *TailSource) closeFile() {
	if ts.file != nil {
		ts.file.Close()
		ts.file = nil
	}
}

func (ts *TailSource) run() {
	defer ts.closeFile()

	ticker := time.NewTicker(tailPollInterval)
	defer ticker.Stop()

	if err := ts.drain(); err != nil {
		ts.finish(err)
		return
	}

	for {
		select {
		case <-ts.done:
			ts.finish(nil)
			return

		case event, ok := <-ts.watcher.Events:
			if !ok {
				ts.finish(nil)
				return
			}
			if filepath.Clean(event.Name) != ts.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Create):
				ts.closeFile()
				if err := ts.open(true); err != nil {
					util.LogWarnf("Tail source: reopen %s failed: %v", ts.path, err)
					continue
				}
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				util.LogInfof("Tail source: %s was removed, waiting for it to reappear", ts.path)
				ts.closeFile()
				continue
			}
			if err := ts.drain(); err != nil {
				ts.finish(err)
				return
			}

		case err, ok := <-ts.watcher.Errors:
			if !ok {
				ts.finish(nil)
				return
			}
			util.LogError("File monitoring error: " + err.Error())

		case <-ticker.C:
			if ts.file == nil {
				if err := ts.open(true); err != nil {
					continue
				}
			}
			if err := ts.drain(); err != nil {
				ts.finish(err)
				return
			}
		}
	}
}

// drain reads everything past the current offset and emits complete lines.
func (ts *TailSource) drain() error {
	if ts.file == nil {
		return nil
	}

	stat, err := ts.file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < ts.offset {
		util.LogInfof("Tail source: %s was truncated, rewinding", ts.path)
		ts.offset = 0
		ts.pending = ts.pending[:0]
	}
	if stat.Size() == ts.offset {
		return nil
	}

	chunk := make([]byte, stat.Size()-ts.offset)
	n, err := ts.file.ReadAt(chunk, ts.offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	ts.offset += int64(n)
	ts.pending = append(ts.pending, chunk[:n]...)

	for {
		idx := bytes.IndexByte(ts.pending, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(ts.pending[:idx], "\r"))
		ts.pending = ts.pending[idx+1:]
		if !ts.emit(line) {
			return nil
		}
	}
	if len(ts.pending) > maxLineLength {
		util.LogWarnf("Tail source: discarding %d bytes without a newline", len(ts.pending))
		ts.pending = ts.pending[:0]
	}
	return nil
}

// Close stops following the file.
func (ts *TailSource) Close() error {
	if !ts.stop() {
		return ErrClosed
	}
	return ts.watcher.Close()
}
