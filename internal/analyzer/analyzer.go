package analyzer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
	"github.com/penwyp/go-flight-monitor/internal/data/cache"
	"github.com/penwyp/go-flight-monitor/internal/data/parser"
	"github.com/penwyp/go-flight-monitor/internal/data/scanner"
	"github.com/penwyp/go-flight-monitor/internal/presentation/formatter"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// ErrNoRecordings is returned when the data directory holds no recordings.
var ErrNoRecordings = errors.New("no telemetry recordings found")

// SortKeys lists the accepted values of Config.SortBy.
var SortKeys = []string{"name", "apogee", "duration", "samples"}

type Config struct {
	DataDir      string
	CacheDir     string
	OutputFormat string
	SortBy       string
	Limit        int
	Concurrency  int
	// ReferencePressure is ground level for every recording; zero uses each
	// recording's first valid sample.
	ReferencePressure float64
	Session           session.Config
	Output            io.Writer
}

// Validate fills defaults and rejects unknown options.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if c.SortBy == "" {
		c.SortBy = "name"
	}
	if c.Output == nil {
		c.Output = os.Stdout
	}
	if c.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Limit)
	}
	if c.ReferencePressure < 0 {
		return fmt.Errorf("reference pressure must not be negative, got %.2f", c.ReferencePressure)
	}
	if !contains(SortKeys, c.SortBy) {
		return fmt.Errorf("unknown sort key %q (want one of %s)", c.SortBy, strings.Join(SortKeys, ", "))
	}
	if _, err := formatter.New(c.OutputFormat); err != nil {
		return err
	}
	return c.Session.Validate()
}

type Analyzer struct {
	config     *Config
	cache      cache.Cache
	scanner    *scanner.FileScanner
	parser     *parser.Parser
	aggregator *aggregator.Aggregator
	formatter  formatter.Formatter
}

func New(config *Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	agg, err := aggregator.NewAggregator(config.Session, config.ReferencePressure)
	if err != nil {
		return nil, err
	}
	out, _ := formatter.New(config.OutputFormat)

	a := &Analyzer{
		config:     config,
		scanner:    scanner.NewFileScanner(config.DataDir),
		parser:     parser.NewParser(config.Concurrency),
		aggregator: agg,
		formatter:  out,
	}

	// A configured reference changes every summary, so cached ones only
	// apply to the default first-sample reference.
	if config.CacheDir != "" && config.ReferencePressure == 0 {
		fileCache, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			util.LogWarnf("Summary cache disabled: %v", err)
		} else {
			a.cache = fileCache
		}
	}
	return a, nil
}

// Summarize returns a summary per recording found in the data directory,
// using cached summaries where the recording is unchanged.
func (a *Analyzer) Summarize() ([]aggregator.FlightSummary, error) {
	startTime := time.Now()

	if a.cache != nil {
		if err := a.cache.Preload(); err != nil {
			util.LogWarnf("Cache preload failed: %v", err)
		}
		loaded, onDisk := a.cache.GetCacheStats()
		util.LogDebugf("Cache preloaded %d of %d summaries", loaded, onDisk)
	}

	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan recordings: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoRecordings
	}
	util.LogInfof("Found %d recordings", len(files))

	stats := NewCacheStats()
	summaries := make([]aggregator.FlightSummary, 0, len(files))

	filesToParse := files
	missReasons := make(map[string]cache.CacheMissReason)
	if a.cache != nil {
		filesToParse = nil
		for file, result := range a.cache.BatchValidate(files) {
			if !result.Valid {
				filesToParse = append(filesToParse, file)
				missReasons[file] = result.MissReason
				continue
			}
			cached := a.cache.Get(file)
			if !cached.Found {
				filesToParse = append(filesToParse, file)
				missReasons[file] = cached.MissReason
				continue
			}
			stats.IncrementTotal()
			stats.IncrementHit()
			summaries = append(summaries, *cached.Data)
		}
	}

	for result := range a.parser.ParseFiles(filesToParse) {
		stats.IncrementTotal()

		if result.Error != nil {
			stats.IncrementFailure()
			util.LogWarnf("Failed to parse recording %s: %v", result.File, result.Error)
			continue
		}
		if a.cache != nil {
			stats.IncrementMiss(result.File, missReasons[result.File])
		}

		summary, err := a.aggregator.Summarize(result.File, result.Recording)
		if err != nil {
			stats.IncrementFailure()
			util.LogWarnf("Failed to summarize %s: %v", result.File, err)
			continue
		}
		if a.cache != nil {
			if err := a.cache.Set(summary); err != nil {
				util.LogWarnf("Failed to save cache for %s: %v", result.File, err)
			}
		}
		summaries = append(summaries, *summary)
	}

	stats.PrintFinalStats()
	util.LogDebugf("Summarized %d recordings in %v", len(summaries), time.Since(startTime))
	return summaries, nil
}

// Run summarizes, sorts, limits and writes the report.
func (a *Analyzer) Run() error {
	summaries, err := a.Summarize()
	if err != nil {
		return err
	}

	summaries = SortSummaries(summaries, a.config.SortBy)
	if a.config.Limit > 0 && len(summaries) > a.config.Limit {
		util.LogDebugf("Applying result limit: %d -> %d", len(summaries), a.config.Limit)
		summaries = summaries[:a.config.Limit]
	}

	return a.formatter.Format(a.config.Output, summaries)
}

// SortSummaries orders summaries in place by key. Numeric keys sort
// descending; ties and "name" sort by flight id.
func SortSummaries(data []aggregator.FlightSummary, key string) []aggregator.FlightSummary {
	value := func(s aggregator.FlightSummary) float64 {
		switch key {
		case "apogee":
			return s.Apogee
		case "duration":
			return s.Duration
		case "samples":
			return float64(s.Accepted)
		default:
			return 0
		}
	}
	sort.SliceStable(data, func(i, j int) bool {
		vi, vj := value(data[i]), value(data[j])
		if vi != vj {
			return vi > vj
		}
		if data[i].FlightID != data[j].FlightID {
			return data[i].FlightID < data[j].FlightID
		}
		return data[i].FilePath < data[j].FilePath
	})
	return data
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
