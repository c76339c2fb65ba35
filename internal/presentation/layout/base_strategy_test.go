package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
	"github.com/penwyp/go-flight-monitor/internal/util"
)

func TestBaseStrategyBorders(t *testing.T) {
	b := &BaseStrategy{}

	assert.Equal(t, "╭"+strings.Repeat("─", 8)+"╮", b.TopBorder(10))
	assert.Equal(t, "╰"+strings.Repeat("─", 8)+"╯", b.BottomBorder(10))
	assert.Equal(t, "├"+strings.Repeat("─", 8)+"┤", b.Separator(10))
	assert.Equal(t, "│ ab     │", b.Line("ab", 10))
}

func TestTwoColumns(t *testing.T) {
	b := &BaseStrategy{}

	t.Run("splits in the middle", func(t *testing.T) {
		line := b.TwoColumns("left", "right", 27)
		assert.Equal(t, "│ left"+strings.Repeat(" ", 7)+"│ right"+strings.Repeat(" ", 6)+"│", line)
		assert.Equal(t, 27, util.GetDisplayWidth(line))
	})

	t.Run("wide left column moves the divider", func(t *testing.T) {
		line := b.TwoColumns(strings.Repeat("x", 15), "r", 27)
		assert.Equal(t, 27, util.GetDisplayWidth(line))
		assert.Contains(t, line, strings.Repeat("x", 15)+" │ r")
	})

	t.Run("colored content keeps alignment", func(t *testing.T) {
		line := b.TwoColumns(b.StateBadge(model.StateIdle), "x", 27)
		assert.Equal(t, 27, util.GetDisplayWidth(line))
	})
}

func TestReferenceLabel(t *testing.T) {
	b := &BaseStrategy{}
	m := &model.DashboardMetrics{ReferencePressure: 100000}

	assert.Equal(t, "Reference: 100000.00 Pa", b.ReferenceLabel(m))
	m.AutoLock = true
	assert.Equal(t, "Reference: 100000.00 Pa [auto]", b.ReferenceLabel(m))
}

func TestStateBadge(t *testing.T) {
	b := &BaseStrategy{}
	assert.Equal(t, "● TRACKING", util.StripANSI(b.StateBadge(model.StateTracking)))
	assert.Equal(t, "○ IDLE", util.StripANSI(b.StateBadge(model.StateIdle)))
}
