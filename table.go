package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sinclairtarget/git-fame/internal/format"
	"github.com/sinclairtarget/git-fame/internal/pretty"
	"github.com/sinclairtarget/git-fame/internal/tally"
)

const authorWidth = 40

// Writes the per-author summary, most lines first. With limit > 0 only the
// top limit authors get a row. Totals always cover every author.
func writeSummary(w io.Writer, stats []*tally.AuthorStats, limit int) {
	if len(stats) == 0 {
		return
	}

	ranked := tally.Rank(stats)

	totalLines, totalCommits, totalFiles := 0, 0, map[string]bool{}
	for _, s := range ranked {
		totalLines += s.TotalLines
		totalCommits += s.Commits
		for _, file := range s.Files() {
			totalFiles[file] = true
		}
	}

	numFilteredOut := 0
	if limit > 0 && limit < len(ranked) {
		numFilteredOut = len(ranked) - limit
		ranked = ranked[:limit]
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"Author", "Lines", "Share", "Commits", "Files"})

	for _, s := range ranked {
		tbl.AppendRow(table.Row{
			format.Abbrev(s.Author, authorWidth),
			pretty.Highlight(format.Number(s.TotalLines)),
			share(s.TotalLines, totalLines),
			format.Number(s.Commits),
			format.Number(s.FileCount()),
		})
	}

	if numFilteredOut > 0 {
		msg := fmt.Sprintf("...%s more...", format.Number(numFilteredOut))
		tbl.AppendRow(table.Row{msg})
	}

	tbl.AppendFooter(table.Row{
		"Total",
		format.Number(totalLines),
		"",
		format.Number(totalCommits),
		format.Number(len(totalFiles)),
	})

	tbl.Render()
}

func share(lines int, total int) string {
	if total == 0 {
		return "-"
	}

	return fmt.Sprintf("%.1f%%", float64(lines)/float64(total)*100)
}
