package display

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/presentation/interaction"
	"github.com/penwyp/go-flight-monitor/internal/presentation/layout"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// DisplayConfig holds the presentation options of the dashboard.
type DisplayConfig struct {
	Out        io.Writer // defaults to os.Stdout
	TimeFormat string
	Width      int
}

type TerminalDisplay struct {
	config            *DisplayConfig
	out               io.Writer
	lastDraw          time.Time
	inAlternateScreen bool
	lastLayoutStyle   int
	isFirstRender     bool
	currentMode       model.DisplayMode
	now               func() time.Time
}

func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &TerminalDisplay{
		config:        config,
		out:           out,
		isFirstRender: true,
		currentMode:   model.ModeNormal,
		now:           time.Now,
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.EnterAltScreen+util.ClearScreen+util.ClearScrollback+util.MoveCursorHome+util.HideCursor)
	td.inAlternateScreen = true
	td.isFirstRender = true
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if !td.inAlternateScreen {
		return
	}
	fmt.Fprint(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// ClearForTransition clears the whole screen when switching modes.
func (td *TerminalDisplay) ClearForTransition() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen+util.ClearScrollback+util.MoveCursorHome)
	}
}

// LastDraw returns when the last frame was written.
func (td *TerminalDisplay) LastDraw() time.Time { return td.lastDraw }

// determineDisplayMode determines the current display mode based on interaction state
func (td *TerminalDisplay) determineDisplayMode(state model.InteractionState) model.DisplayMode {
	// Priority order: Dialog > Help > Normal
	if state.ConfirmDialog != nil {
		return model.ModeDialog
	}
	if state.ShowHelp {
		return model.ModeHelp
	}
	return model.ModeNormal
}

// RenderWithState draws one frame. The frame is assembled first and written
// in a single call, overprinting the previous one from the home position.
func (td *TerminalDisplay) RenderWithState(metrics *model.DashboardMetrics, state model.InteractionState) {
	newMode := td.determineDisplayMode(state)
	if td.isFirstRender || newMode != td.currentMode || td.lastLayoutStyle != state.LayoutStyle {
		td.ClearForTransition()
		td.isFirstRender = false
		td.currentMode = newMode
		td.lastLayoutStyle = state.LayoutStyle
	}

	var frame bytes.Buffer
	switch newMode {
	case model.ModeDialog:
		td.renderConfirmDialog(&frame, state.ConfirmDialog)
	case model.ModeHelp:
		td.renderHelp(&frame)
	default:
		param := model.LayoutParam{TimeFormat: td.config.TimeFormat, Width: td.config.Width, Now: td.now()}
		layout.GetLayoutStrategy(state.LayoutStyle).Render(&frame, metrics, param)
		if status := statusLine(state); status != "" {
			fmt.Fprintf(&frame, "  %s\n", status)
		}
	}

	var screen strings.Builder
	screen.WriteString(util.MoveCursorHome)
	for _, line := range strings.SplitAfter(frame.String(), "\n") {
		if line == "" {
			continue
		}
		screen.WriteString(strings.TrimSuffix(line, "\n"))
		screen.WriteString(util.ClearLineFromCursor + "\n")
	}
	screen.WriteString(util.ClearToEnd)

	if _, err := io.WriteString(td.out, screen.String()); err != nil {
		util.LogDebugf("Failed to draw frame: %v", err)
		return
	}
	td.lastDraw = td.now()
}

func statusLine(state model.InteractionState) string {
	var parts []string
	if state.IsPaused {
		parts = append(parts, util.Colorize(util.ColorYellow, "⏸ PAUSED"))
	}
	if state.StatusMessage != "" {
		parts = append(parts, "Status: "+state.StatusMessage)
	}
	return strings.Join(parts, "  ")
}

func (td *TerminalDisplay) renderHelp(w io.Writer) {
	fmt.Fprintln(w, util.FormatHeaderTitle("Flight Monitor - Help"))
	fmt.Fprintln(w, strings.Repeat("═", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Keyboard Shortcuts:")
	fmt.Fprintln(w)
	for _, b := range interaction.Bindings {
		fmt.Fprintf(w, "  %s - %s\n", util.PadRight(b.Keys, 16), b.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout Styles:")
	fmt.Fprintln(w, "  Full Dashboard - Readings, ranges and altitude trace")
	fmt.Fprintln(w, "  Minimal        - One status line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reference pressure is the altitude zero. It is captured when tracking")
	fmt.Fprintln(w, "starts and can be locked to the highest pressure seen with 'g'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("═", 72))
	fmt.Fprintln(w, "Press 'h' to return...")
}

func (td *TerminalDisplay) renderConfirmDialog(w io.Writer, dialog *model.ConfirmDialog) {
	const boxWidth = 60
	padding := strings.Repeat(" ", 10)

	fmt.Fprint(w, "\n\n\n\n")
	fmt.Fprintf(w, "%s╔%s╗\n", padding, strings.Repeat("═", boxWidth-2))
	fmt.Fprintf(w, "%s║%s║\n", padding, util.CenterText(dialog.Title, boxWidth-2))
	fmt.Fprintf(w, "%s╠%s╣\n", padding, strings.Repeat("═", boxWidth-2))
	fmt.Fprintf(w, "%s║%s║\n", padding, strings.Repeat(" ", boxWidth-2))
	for _, line := range wrapText(dialog.Message, boxWidth-4) {
		fmt.Fprintf(w, "%s║ %s ║\n", padding, util.PadRight(line, boxWidth-4))
	}
	fmt.Fprintf(w, "%s║%s║\n", padding, strings.Repeat(" ", boxWidth-2))
	fmt.Fprintf(w, "%s║%s║\n", padding, util.CenterText("(Y)es / (N)o", boxWidth-2))
	fmt.Fprintf(w, "%s╚%s╝\n", padding, strings.Repeat("═", boxWidth-2))
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if text == "" {
		return []string{}
	}

	if util.GetDisplayWidth(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if util.GetDisplayWidth(currentLine)+1+util.GetDisplayWidth(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}
