package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/data/aggregator"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Flight", "Duration", "Samples", "Dropped",
			"Apogee (m)", "Max VS", "Min VS", "Max Acc Z", "Min Pressure",
		},
	}
}

func (f *TableFormatter) row(s aggregator.FlightSummary) []string {
	if s.Empty() {
		return []string{s.FlightID, "-", "0", util.FormatCount(int64(s.Dropped)), "-", "-", "-", "-", "-"}
	}
	return []string{
		s.FlightID,
		util.FormatElapsed(s.Duration),
		util.FormatCount(int64(s.Accepted)),
		util.FormatCount(int64(s.Dropped)),
		fmt.Sprintf("%.2f", s.Apogee),
		fmt.Sprintf("%.0f", s.MaxVerticalSpeed),
		fmt.Sprintf("%.0f", s.MinVerticalSpeed),
		fmt.Sprintf("%.2f", s.MaxAccelZ),
		fmt.Sprintf("%.2f", s.MinPressure),
	}
}

func (f *TableFormatter) totalRow(data []aggregator.FlightSummary) []string {
	t := ComputeTotals(data)
	return []string{
		fmt.Sprintf("Total (%d)", t.Flights),
		util.FormatElapsed(t.Duration),
		util.FormatCount(int64(t.Accepted)),
		util.FormatCount(int64(t.Dropped)),
		fmt.Sprintf("%.2f", t.HighestApogee),
		fmt.Sprintf("%.0f", t.MaxSpeed),
		"",
		fmt.Sprintf("%.2f", t.MaxAccelZ),
		"",
	}
}

func (f *TableFormatter) Format(w io.Writer, data []aggregator.FlightSummary) error {
	rows := make([][]string, 0, len(data))
	for _, s := range data {
		rows = append(rows, f.row(s))
	}
	total := f.totalRow(data)

	widths := f.calculateColumnWidths(append(rows, total))

	var b strings.Builder
	f.printBorder(&b, widths, "top")
	f.printRow(&b, f.headers, widths)
	f.printBorder(&b, widths, "middle")
	for _, r := range rows {
		f.printRow(&b, r, widths)
	}
	f.printBorder(&b, widths, "middle")
	f.printRow(&b, total, widths)
	f.printBorder(&b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

// calculateColumnWidths sizes each column to its widest cell.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, r := range rows {
		for i, value := range r {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 6 {
			widths[i] = 6
		}
	}
	return widths
}

// printBorder writes a top, middle or bottom border.
func (f *TableFormatter) printBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	default:
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right + "\n")
}

// printRow writes one row; the flight column is left-aligned, numbers right.
func (f *TableFormatter) printRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		if i == 0 {
			b.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		} else {
			b.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		}
	}
	b.WriteString("\n")
}
