package layout

import (
	"io"

	"github.com/penwyp/go-flight-monitor/internal/core/model"
)

// Layout styles, cycled by the layout key.
const (
	StyleFull = iota
	StyleMinimal
	styleCount
)

// LayoutStrategy defines the interface for different layout rendering strategies
type LayoutStrategy interface {
	Render(w io.Writer, metrics *model.DashboardMetrics, param model.LayoutParam)
	GetName() string
}

// GetLayoutStrategy returns the appropriate layout strategy based on the style
func GetLayoutStrategy(layoutStyle int) LayoutStrategy {
	strategies := map[int]LayoutStrategy{
		StyleFull:    &FullLayoutStrategy{},
		StyleMinimal: &MinimalLayoutStrategy{},
	}

	if strategy, exists := strategies[layoutStyle]; exists {
		return strategy
	}

	// Default to full dashboard if invalid style
	return &FullLayoutStrategy{}
}

// NextStyle returns the style after current, wrapping around.
func NextStyle(current int) int {
	return (current + 1) % styleCount
}
