/*
* Writes author statistics as semicolon-delimited text.
*
* Every string field is quoted and numbers never are, which encoding/csv
* can't be told to do, so rows are built by hand.
 */
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sinclairtarget/git-fame/internal/tally"
)

const (
	separator  = ";"
	terminator = "\n"
)

var (
	summaryHeader = []string{
		"Author",
		"File Extension",
		"Lines By File Extension",
		"Total Commit Count",
		"Total Files Contributed To",
	}
	verboseHeader = []string{
		"Author",
		"File",
		"File Extension",
		"Lines By File",
		"Total Commit Count",
		"Total Files Contributed To",
	}
)

// Renders stats as a table with one row per author and extension, or, when
// verbose, one row per author and file.
//
// Authors are sorted by name; extensions and files keep the order they were
// tallied in. The same input always renders to the same bytes.
func ToTable(stats []*tally.AuthorStats, verbose bool) string {
	var b strings.Builder
	writeTable(&b, stats, verbose)
	return b.String()
}

// Writes the output of ToTable to w.
func Write(w io.Writer, stats []*tally.AuthorStats, verbose bool) error {
	_, err := io.WriteString(w, ToTable(stats, verbose))
	if err != nil {
		return fmt.Errorf("error writing table: %w", err)
	}

	return nil
}

func writeTable(b *strings.Builder, stats []*tally.AuthorStats, verbose bool) {
	if verbose {
		writeRow(b, verboseHeader...)
	} else {
		writeRow(b, summaryHeader...)
	}

	for _, s := range tally.Sorted(stats) {
		commits := strconv.Itoa(s.Commits)
		files := strconv.Itoa(s.FileCount())

		if verbose {
			for _, file := range s.Files() {
				writeRow(
					b,
					quote(s.Author),
					quote(file),
					quote(tally.Extension(file)),
					strconv.Itoa(s.FileLines(file)),
					commits,
					files,
				)
			}
		} else {
			for _, ext := range s.Extensions() {
				writeRow(
					b,
					quote(s.Author),
					quote(ext),
					strconv.Itoa(s.ExtensionLines(ext)),
					commits,
					files,
				)
			}
		}
	}
}

func writeRow(b *strings.Builder, fields ...string) {
	b.WriteString(strings.Join(fields, separator))
	b.WriteString(terminator)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
