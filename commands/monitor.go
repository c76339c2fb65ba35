package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-flight-monitor/internal/application/monitor"
	"github.com/penwyp/go-flight-monitor/internal/data/source"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

var (
	// Source flags
	monSource         string
	monFile           string
	monReplayInterval time.Duration
	monFromStart      bool
	monPort           string
	monBaud           int

	// Derivation flags
	monReferencePressure    float64
	monReferenceTemperature float64
	monCapacity             int
	monAutoLock             bool
	monAutoStart            bool

	// Display flags
	monRefreshRate float64
	monLayout      string
	monTimeFormat  string
	monWidth       int

	// Output flags
	monListen        string
	monRecord        string
	monHeadless      bool
	monStatsInterval time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Follow a live telemetry stream",
	Long: `Reads telemetry lines from stdin, a recording, a growing log file or a
serial port and shows altitude, vertical speed and ranges in real time.

Tracking is toggled with 's'. When tracking starts the reference pressure
becomes altitude zero; press 'g' to lock it to the highest pressure seen.

With --listen every update is also published to websocket clients on /ws,
and the latest one is served on /api/status. With --record tracked flights
are stored in a SQLite database, see the "flights" command.

When stdin or stdout is not a terminal the monitor runs headless: tracking
starts immediately and progress is logged.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	f := monitorCmd.Flags()

	// Source flags
	f.StringVar(&monSource, "source", "",
		"Line source (stdin, file, tail, serial); defaults to file when --file is set")
	f.StringVar(&monFile, "file", "",
		"Recording to replay, or log file to follow with --source tail")
	f.DurationVar(&monReplayInterval, "replay-interval", 0,
		"Delay between replayed lines (0 = as fast as possible)")
	f.BoolVar(&monFromStart, "from-start", false,
		"With --source tail, read existing content before following")
	f.StringVar(&monPort, "port", "",
		"Serial port, e.g. /dev/ttyUSB0 (see the ports command)")
	f.IntVar(&monBaud, "baud", source.DefaultBaudRate,
		"Serial baud rate")

	// Derivation flags
	f.Float64Var(&monReferencePressure, "reference-pressure", 0,
		"Initial reference pressure in Pa (0 = sea level)")
	f.Float64Var(&monReferenceTemperature, "reference-temperature", 0,
		"Reference temperature of the altitude model in K (0 = 288.15)")
	f.IntVar(&monCapacity, "capacity", 0,
		"Samples retained per channel (0 = 100000)")
	f.BoolVar(&monAutoLock, "auto-lock", false,
		"Keep the reference at the highest pressure seen")
	f.BoolVar(&monAutoStart, "auto-start", false,
		"Start tracking immediately")

	// Display flags
	f.Float64Var(&monRefreshRate, "refresh-rate", 4,
		"Dashboard frames per second (0-60)")
	f.StringVar(&monLayout, "layout", "full",
		"Dashboard layout (full, minimal)")
	f.StringVar(&monTimeFormat, "time-format", "24h",
		"Clock format (12h or 24h)")
	f.IntVar(&monWidth, "width", 0,
		"Dashboard width (0 = terminal width)")

	// Output flags
	f.StringVar(&monListen, "listen", "",
		"Serve websocket updates on this address, e.g. :8080")
	f.StringVar(&monRecord, "record", "",
		"Record tracked flights to this SQLite database")
	f.BoolVar(&monHeadless, "headless", false,
		"Run without the dashboard and log progress")
	f.DurationVar(&monStatsInterval, "stats-interval", 5*time.Second,
		"Progress log interval in headless mode")
}

// loadMonitorConfig reads --config when given, then applies every flag set
// on the command line on top of it.
func loadMonitorConfig(cmd *cobra.Command) (*monitor.Config, error) {
	cfg := &monitor.Config{}
	if configFile != "" {
		loaded, err := monitor.LoadConfigFile(expandPath(configFile))
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if configFile == "" || f.Changed(name) {
			apply()
		}
	}
	set("source", func() { cfg.Source = monitor.SourceKind(monSource) })
	set("file", func() { cfg.File = monFile })
	set("replay-interval", func() { cfg.ReplayInterval = monitor.Duration(monReplayInterval) })
	set("from-start", func() { cfg.FromStart = monFromStart })
	set("port", func() { cfg.Serial.Port = monPort })
	set("baud", func() { cfg.Serial.BaudRate = monBaud })
	set("reference-pressure", func() { cfg.ReferencePressure = monReferencePressure })
	set("reference-temperature", func() { cfg.ReferenceTemperature = monReferenceTemperature })
	set("capacity", func() { cfg.Capacity = monCapacity })
	set("auto-lock", func() { cfg.AutoLock = monAutoLock })
	set("auto-start", func() { cfg.AutoStart = monAutoStart })
	set("refresh-rate", func() { cfg.UIRefreshRate = monRefreshRate })
	set("layout", func() { cfg.Layout = monLayout })
	set("time-format", func() { cfg.TimeFormat = monTimeFormat })
	set("width", func() { cfg.Width = monWidth })
	set("listen", func() { cfg.ListenAddr = monListen })
	set("record", func() { cfg.RecordPath = monRecord })
	set("headless", func() { cfg.Headless = monHeadless })
	set("stats-interval", func() { cfg.StatsInterval = monitor.Duration(monStatsInterval) })

	if cfg.RecordPath != "" {
		cfg.RecordPath = expandPath(cfg.RecordPath)
	}
	return cfg, nil
}

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadMonitorConfig(cmd)
	if err != nil {
		return err
	}

	// The keyboard reads stdin, so piped telemetry implies headless mode.
	forced := !cfg.Headless && !isTerminal()
	if forced {
		cfg.Headless = true
	}
	if err := initLogging(cfg.Headless); err != nil {
		return err
	}
	if forced {
		util.LogWarn("stdin or stdout is not a terminal, running headless")
	}

	orchestrator, err := monitor.NewOrchestrator(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := orchestrator.Run(ctx); err != nil {
		return fmt.Errorf("monitor stopped: %w", err)
	}
	return nil
}
