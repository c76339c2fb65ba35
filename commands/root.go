package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-flight-monitor/internal/analyzer"
	"github.com/penwyp/go-flight-monitor/internal/core/session"
	"github.com/penwyp/go-flight-monitor/internal/data/cache"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

var (
	// Logging related
	debug     bool
	logFormat string

	// Configuration file, read by monitor
	configFile string

	// Data path
	dataDir string

	// Output related
	outputFormat string

	// Selection and ordering
	sortBy string
	limit  int
	reset  bool

	// Derivation
	referencePressure float64

	rootCmd = &cobra.Command{
		Use:   "go-flight-monitor [flags]",
		Short: "Barometric flight telemetry analyzer and live monitor",
		Long: `go-flight-monitor turns barometric and inertial telemetry into altitude,
vertical speed and range summaries.

Without a subcommand it scans a directory of recorded telemetry files and
reports one summary per flight. Use "monitor" to follow a live stream.

Examples:
  go-flight-monitor --dir ./recordings                 # Summarize every recording
  go-flight-monitor --sort apogee --limit 5            # Five highest flights
  go-flight-monitor --output csv > flights.csv         # Export summaries
  go-flight-monitor --reference-pressure 98650         # Use a fixed ground pressure
  go-flight-monitor monitor --source serial --port /dev/ttyUSB0
  go-flight-monitor monitor --file launch.tlm --replay-interval 100ms`,
		SilenceUsage: true,
		RunE:         runAnalyze,
	}
)

const (
	defaultLogFile  = "~/.go-flight-monitor/logs/app.log"
	defaultCacheDir = "~/.go-flight-monitor/cache"
	defaultDBPath   = "~/.go-flight-monitor/flights.db"
	defaultDataDir  = "."
)

func init() {
	// Input data configuration
	rootCmd.Flags().StringVar(&dataDir, "dir", defaultDataDir,
		"Directory of telemetry recordings (*.tlm, *.log, *.txt)")

	// Ordering
	rootCmd.Flags().StringVar(&sortBy, "sort", "name",
		"Sort key ("+strings.Join(analyzer.SortKeys, ", ")+")")
	rootCmd.Flags().IntVar(&limit, "limit", 0,
		"Limit result count (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")

	// Derivation
	rootCmd.Flags().Float64Var(&referencePressure, "reference-pressure", 0,
		"Ground pressure in Pa (0 = first sample of each recording)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log file format (text, json)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML configuration file for the monitor command")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before analysis")
}

// initLogging installs the global logger. Console output is only added in
// debug mode and when it cannot corrupt a full-screen dashboard.
func initLogging(toConsole bool) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}
	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return util.InitLogger(util.LoggerConfig{
		Level:      logLevel,
		File:       logFile,
		FileFormat: util.LogFormat(logFormat),
		Console:    debug && toConsole,
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := initLogging(true); err != nil {
		return err
	}

	cacheDir := expandPath(defaultCacheDir)
	if reset {
		fileCache, err := cache.NewFileCache(cacheDir)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if err := fileCache.Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	config := &analyzer.Config{
		DataDir:           expandPath(dataDir),
		CacheDir:          cacheDir,
		OutputFormat:      outputFormat,
		SortBy:            sortBy,
		Limit:             limit,
		Concurrency:       runtime.NumCPU(),
		ReferencePressure: referencePressure,
		Session:           session.Config{},
		Output:            cmd.OutOrStdout(),
	}

	a, err := analyzer.New(config)
	if err != nil {
		return err
	}
	return a.Run()
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
