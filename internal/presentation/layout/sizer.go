package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/penwyp/go-flight-monitor/internal/util"
)

const (
	minWidth      = 48
	fallbackWidth = 80
	maxWidthCap   = 110
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{terminalWidth: stdoutWidth}

// Sizer measures text and picks the frame width.
type Sizer struct {
	terminalWidth func() (int, error)
}

func stdoutWidth() (int, error) {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	return w, err
}

// displayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (i Sizer) displayWidth(s string) int {
	return runewidth.StringWidth(util.StripANSI(s))
}

// PadString pads a string to a specific display width, handling emojis correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := i.displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// GetMaxWidth returns the frame width: requested when positive, otherwise
// derived from the terminal, clamped to a readable range.
func (i Sizer) GetMaxWidth(requested int) int {
	width := requested
	if width <= 0 {
		width = fallbackWidth
		if i.terminalWidth != nil {
			if tw, err := i.terminalWidth(); err == nil && tw > 0 {
				width = tw - 2
			}
		}
		if width > maxWidthCap {
			width = maxWidthCap
		}
	}
	if width < minWidth {
		width = minWidth
	}
	return width
}
