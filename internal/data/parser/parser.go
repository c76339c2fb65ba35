package parser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// Recording is the parsed content of one telemetry recording.
type Recording struct {
	Samples   []model.RawSample
	Lines     int // non-blank lines read
	Malformed int // lines rejected by ParseLine
}

// Parser is a struct for parsing telemetry recording files.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]*Recording
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File      string
	Recording *Recording
	Error     error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]*Recording),
	}
}

// ParseFile reads every line of a recording, keeping valid samples in file order.
func (p *Parser) ParseFile(path string) (*Recording, error) {
	p.mu.Lock()
	if cached, ok := p.cache[path]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	util.LogDebugf("Start parsing recording: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer file.Close()

	rec := &Recording{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if isBlank(line) {
			continue
		}
		rec.Lines++
		sample, err := ParseLine(line)
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				rec.Malformed++
				util.LogDebugf("Skip malformed line %s:%d - %v", path, lineNo, err)
				continue
			}
			return nil, err
		}
		rec.Samples = append(rec.Samples, sample)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan recording %s: %w", path, err)
	}

	p.mu.Lock()
	p.cache[path] = rec
	p.mu.Unlock()

	return rec, nil
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d recordings, concurrency: %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			rec, err := p.ParseFile(f)
			if err != nil {
				util.LogDebugf("Recording parsing failed: %s - %v", f, err)
			}
			results <- ParseResult{File: f, Recording: rec, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing finished, total duration: %v", time.Since(start))
	}()

	return results
}

func isBlank(line string) bool {
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}
