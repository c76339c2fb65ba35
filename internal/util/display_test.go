package util

import (
	"math"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSparkline(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", Sparkline(nil, 10))
		assert.Equal(t, "", Sparkline([]float64{1, 2}, 0))
	})

	t.Run("ascending spans all heights", func(t *testing.T) {
		assert.Equal(t, "▁▂▃▄▅▆▇█", Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8))
	})

	t.Run("flat series uses middle height", func(t *testing.T) {
		line := Sparkline([]float64{5, 5, 5}, 10)
		assert.Equal(t, 3, utf8.RuneCountInString(line))
		assert.Equal(t, "▄▄▄", line)
	})

	t.Run("keeps the most recent values", func(t *testing.T) {
		line := Sparkline([]float64{100, 0, 1}, 2)
		assert.Equal(t, "▁█", line)
	})

	t.Run("non finite values are blank", func(t *testing.T) {
		line := Sparkline([]float64{0, math.NaN(), 7}, 3)
		assert.Equal(t, "▁ █", line)
	})
}

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "   ab", PadLeft("ab", 5))
	assert.Equal(t, 5, GetDisplayWidth(PadRight("abcdefgh", 5)))
	assert.Equal(t, "  ab  ", CenterText("ab", 6))
	assert.Equal(t, "abc", CenterText("abcdef", 3))
}

func TestDisplayWidthIgnoresEscapes(t *testing.T) {
	colored := Colorize(ColorGreen, "IDLE")
	assert.Equal(t, "IDLE", StripANSI(colored))
	assert.Equal(t, 4, GetDisplayWidth(colored))
	assert.Equal(t, colored+"  ", PadRight(colored, 6))
	assert.Equal(t, 2, GetDisplayWidth("🚀"))
}

func TestCreateProgressBar(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]", CreateProgressBar(50, 12))
	assert.Equal(t, "[░░░░]", CreateProgressBar(-10, 6))
	assert.Equal(t, "[████]", CreateProgressBar(250, 6))
}
