/*
* Utility functions for formatting output.
 */
package format

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Print string with max length, truncating with ellipsis.
func Abbrev(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	if max <= 1 {
		return "…"
	}

	return string(runes[:max-1]) + "…"
}

// Number with thousands separators, e.g. 12,345.
func Number(n int) string {
	return humanize.Comma(int64(n))
}

// Duration as HH:MM:SS. Hours don't wrap at 24.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	total := int64(d.Round(time.Second) / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
