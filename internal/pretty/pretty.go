// Terminal niceties: colors, warnings and the progress line.
package pretty

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Whether we can redraw lines on f, i.e. it is a terminal.
func AllowDynamic(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetColorEnabled controls whether ANSI color codes are output
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

func ColorEnabled() bool {
	return !color.NoColor
}

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
	barColor   = color.New(color.FgYellow)
	highColor  = color.New(color.FgGreen)
)

// Colors s for emphasis, if color is enabled.
func Highlight(s string) string {
	return highColor.Sprint(s)
}

func Warnf(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "warning: ")
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}

func Errorf(w io.Writer, format string, args ...any) {
	errorColor.Fprint(w, "error: ")
	fmt.Fprintf(w, format, args...)
	fmt.Fprintln(w)
}
