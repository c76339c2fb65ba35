package layout

import (
	"fmt"
	"strings"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

// BaseStrategy provides the box drawing shared by layout strategies.
type BaseStrategy struct {
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

func (b *BaseStrategy) TopBorder(width int) string {
	return "╭" + strings.Repeat("─", width-2) + "╮"
}

func (b *BaseStrategy) BottomBorder(width int) string {
	return "╰" + strings.Repeat("─", width-2) + "╯"
}

func (b *BaseStrategy) Separator(width int) string {
	return "├" + strings.Repeat("─", width-2) + "┤"
}

// Line frames content as one full-width row.
func (b *BaseStrategy) Line(content string, width int) string {
	return "│ " + util.PadRight(content, width-4) + " │"
}

// TwoColumns frames left and right as a row split in the middle. A column
// wider than its half pushes the divider rather than being cut.
// Format: "│ " + left + " │ " + right + " │", 7 fixed cells.
func (b *BaseStrategy) TwoColumns(left, right string, width int) string {
	available := width - 7
	leftWidth := available / 2
	rightWidth := available - leftWidth

	if w := util.GetDisplayWidth(left); w > leftWidth {
		rightWidth -= w - leftWidth
		leftWidth = w
	}
	if rightWidth < 0 {
		rightWidth = 0
	}
	return fmt.Sprintf("│ %s │ %s │", util.PadRight(left, leftWidth), util.PadRight(right, rightWidth))
}

// StateBadge renders the tracking state for headers.
func (b *BaseStrategy) StateBadge(state model.TrackingState) string {
	if state == model.StateTracking {
		return util.Colorize(util.ColorGreen, "● TRACKING")
	}
	return util.Colorize(util.ColorYellow, "○ IDLE")
}

// ReferenceLabel renders the reference pressure with its lock mode.
func (b *BaseStrategy) ReferenceLabel(m *model.DashboardMetrics) string {
	label := "Reference: " + util.FormatPressure(m.ReferencePressure)
	if m.AutoLock {
		label += " [auto]"
	}
	return label
}

func formatVec(v model.Vec3) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", v.X, v.Y, v.Z)
}
