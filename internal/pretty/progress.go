package pretty

import (
	"fmt"
	"io"
	"strings"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/format"
)

const (
	// EraseLine always returns the erase line code as it's used for progress indicators
	EraseLine string = "\x1b[2K"

	barFilled = "█"
	barEmpty  = "░"
	barWidth  = 30
)

// Renders progress as "[███░░░] Finished 3 of 10 (Remaining: 00:00:12)".
func ProgressLine(p concurrent.Progress, width int) string {
	filled := int(p.Fraction() * float64(width))
	filled = min(max(filled, 0), width)

	bar := strings.Repeat(barFilled, filled) +
		strings.Repeat(barEmpty, width-filled)

	return fmt.Sprintf(
		"[%s] Finished %s of %s (Remaining: %s)",
		barColor.Sprint(bar),
		format.Number(p.Finished),
		format.Number(p.Total),
		format.Clock(p.Remaining),
	)
}

// Redraws a single progress line in place. Only use on a terminal.
type ProgressBar struct {
	w       io.Writer
	started bool
}

func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{w: w}
}

func (b *ProgressBar) Update(p concurrent.Progress) {
	b.started = true
	fmt.Fprintf(b.w, "\r%s%s", EraseLine, ProgressLine(p, barWidth))
}

// Ends the progress line so later output starts on a fresh line.
func (b *ProgressBar) Finish() {
	if b.started {
		fmt.Fprintln(b.w)
		b.started = false
	}
}
