package util

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatNumber abbreviates large counts, e.g. 1.5K or 2.5M.
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatCount renders a count with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatBytes renders a byte size, e.g. 1.2 MB.
func FormatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}

// FormatElapsed renders a duration given in seconds of recording time.
func FormatElapsed(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	d := time.Duration(seconds * float64(time.Second))
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %02ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatPressure renders a pressure in pascals.
func FormatPressure(pa float64) string {
	return fmt.Sprintf("%.2f Pa", pa)
}

// FormatAltitude renders an altitude in metres with an explicit sign.
func FormatAltitude(m float64) string {
	return fmt.Sprintf("%+.2f m", m)
}

// FormatSpeed renders a scaled vertical speed value.
func FormatSpeed(v float64) string {
	return fmt.Sprintf("%+.0f", v)
}

// FormatRange renders a min..max pair with the given verb, e.g. "%.2f".
func FormatRange(verb string, lo, hi float64) string {
	return fmt.Sprintf(verb+" .. "+verb, lo, hi)
}
