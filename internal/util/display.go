package util

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorBlue    = "\033[34m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorGray    = "\033[90m"
	ColorBold    = "\033[1m"

	ClearScreen         = "\033[2J"
	ClearLineFromCursor = "\033[0K"
	ClearScrollback     = "\033[3J"
	ClearToEnd          = "\033[J"
	MoveCursorHome      = "\033[H"
	HideCursor          = "\033[?25l"
	ShowCursor          = "\033[?25h"
	EnterAltScreen      = "\033[?1049h"
	ExitAltScreen       = "\033[?1049l"
)

// sparkRunes are the eight block heights used by Sparkline, lowest first.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// StripANSI removes terminal escape sequences from text.
func StripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

// GetDisplayWidth returns the number of terminal cells text occupies,
// ignoring escape sequences.
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(StripANSI(text))
}

// PadRight pads text with spaces to width cells, truncating when longer.
func PadRight(text string, width int) string {
	w := GetDisplayWidth(text)
	if w > width {
		return runewidth.Truncate(StripANSI(text), width, "…")
	}
	return text + strings.Repeat(" ", width-w)
}

// PadLeft right-aligns text within width cells.
func PadLeft(text string, width int) string {
	if GetDisplayWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	return runewidth.FillLeft(text, width)
}

// CenterText centers text within width cells.
func CenterText(text string, width int) string {
	w := GetDisplayWidth(text)
	if w >= width {
		return runewidth.Truncate(text, width, "")
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-left-w)
}

// CreateProgressBar renders percentage as a bracketed bar of width cells.
func CreateProgressBar(percentage float64, width int) string {
	inner := width - 2
	if inner < 1 {
		inner = 1
	}
	filled := int(percentage / 100 * float64(inner))
	if filled > inner {
		filled = inner
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", inner-filled) + "]"
}

// Sparkline renders the last width values as block characters scaled
// between their own min and max. Non-finite values render as spaces.
func Sparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	out := make([]rune, len(values))
	top := len(sparkRunes) - 1
	for i, v := range values {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			out[i] = ' '
		case hi == lo:
			out[i] = sparkRunes[top/2]
		default:
			idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
			out[i] = sparkRunes[idx]
		}
	}
	return string(out)
}

// Colorize wraps text in color and a reset.
func Colorize(color, text string) string {
	return color + text + ColorReset
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return fmt.Sprintf("%s%s%s%s", ColorBold, ColorMagenta, title, ColorReset)
}
