package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-flight-monitor/internal/data/parser"
	"github.com/penwyp/go-flight-monitor/internal/data/recorder"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

var (
	flightsDB     string
	flightsDelete string
	flightsExport string
)

var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "List flights recorded by the monitor",
	Long: `Lists the flights stored in the recorder database written by
"monitor --record". A flight can be exported as telemetry lines, which
replay with "monitor --file", or deleted.`,
	RunE: runFlights,
}

func init() {
	rootCmd.AddCommand(flightsCmd)

	flightsCmd.Flags().StringVar(&flightsDB, "db", defaultDBPath,
		"Recorder database path")
	flightsCmd.Flags().StringVar(&flightsDelete, "delete", "",
		"Delete the flight with this id")
	flightsCmd.Flags().StringVar(&flightsExport, "export", "",
		"Write the samples of the flight with this id as telemetry lines")
}

func runFlights(cmd *cobra.Command, args []string) error {
	if flightsDelete != "" && flightsExport != "" {
		return fmt.Errorf("--delete and --export cannot be combined")
	}
	if err := initLogging(true); err != nil {
		return err
	}

	store, err := recorder.OpenStore(expandPath(flightsDB))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case flightsDelete != "":
		if err := store.DeleteFlight(ctx, flightsDelete); err != nil {
			if errors.Is(err, recorder.ErrFlightNotFound) {
				return fmt.Errorf("no flight with id %s", flightsDelete)
			}
			return err
		}
		fmt.Fprintf(out, "Deleted flight %s\n", flightsDelete)
		return nil

	case flightsExport != "":
		samples, err := store.Samples(ctx, flightsExport)
		if err != nil {
			return err
		}
		for _, s := range samples {
			fmt.Fprintln(out, parser.FormatLine(s.RawSample))
		}
		return nil
	}

	flights, err := store.Flights(ctx)
	if err != nil {
		return err
	}
	printFlights(out, flights)
	if info, err := os.Stat(expandPath(flightsDB)); err == nil && len(flights) > 0 {
		fmt.Fprintf(out, "Database: %s (%s)\n", expandPath(flightsDB), util.FormatBytes(info.Size()))
	}
	return nil
}

// printFlights writes the flight list as aligned columns.
func printFlights(w io.Writer, flights []recorder.Flight) {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No recorded flights.")
		return
	}

	headers := []string{"ID", "Source", "Started", "Duration", "Samples", "Apogee", "Reference"}
	rows := make([][]string, 0, len(flights))
	for _, f := range flights {
		duration := "recording"
		if !f.Open() {
			duration = util.FormatElapsed(f.EndedAt.Sub(f.StartedAt).Seconds())
		}
		rows = append(rows, []string{
			f.ID,
			f.Source,
			f.StartedAt.Local().Format(time.DateTime),
			duration,
			util.FormatCount(int64(f.Samples)),
			util.FormatAltitude(f.Apogee),
			util.FormatPressure(f.ReferencePressure),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], util.GetDisplayWidth(cell))
		}
	}

	line := func(cells []string) {
		padded := make([]string, len(cells))
		for i, c := range cells {
			padded[i] = util.PadRight(c, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, "  "), " "))
	}
	line(headers)
	for _, row := range rows {
		line(row)
	}
	fmt.Fprintf(w, "\n%d flights\n", len(flights))
}
