package util

import (
	"io"
	"os"
	"path/filepath"
	"sync"
)

// WriterOutput writes encoded entries to an io.Writer, one per line.
type WriterOutput struct {
	writer io.Writer
	closer io.Closer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates an output over w that is never closed.
func NewConsoleOutput(w io.Writer, format LogFormat) Output {
	return &WriterOutput{writer: w, format: format}
}

// NewFileOutput appends to path, creating the file and its directory.
func NewFileOutput(path string, format LogFormat) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &WriterOutput{writer: file, closer: file, format: format}, nil
}

// Write encodes entry and writes it followed by a newline.
func (o *WriterOutput) Write(entry LogEntry) error {
	line, err := entry.Encode(o.format)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	o.mu.Lock()
	defer o.mu.Unlock()
	_, err = o.writer.Write(line)
	return err
}

// Close closes the underlying file, if any.
func (o *WriterOutput) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}
