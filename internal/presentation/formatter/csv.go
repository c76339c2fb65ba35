package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

var csvHeader = []string{
	"flight_id", "file", "lines", "accepted", "dropped",
	"start_time", "end_time", "duration", "reference_pressure",
	"apogee", "apogee_time", "final_altitude",
	"min_pressure", "max_pressure", "min_vertical_speed", "max_vertical_speed",
	"min_accel_z", "max_accel_z", "max_temperature",
}

func ff(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func (f *CSVFormatter) Format(w io.Writer, data []aggregator.FlightSummary) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range data {
		record := []string{
			s.FlightID, s.FilePath,
			strconv.Itoa(s.Lines), strconv.Itoa(s.Accepted), strconv.Itoa(s.Dropped),
			ff(s.StartTime), ff(s.EndTime), ff(s.Duration), ff(s.ReferencePressure),
			ff(s.Apogee), ff(s.ApogeeTime), ff(s.FinalAltitude),
			ff(s.MinPressure), ff(s.MaxPressure), ff(s.MinVerticalSpeed), ff(s.MaxVerticalSpeed),
			ff(s.MinAccelZ), ff(s.MaxAccelZ), ff(s.MaxTemperature),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
