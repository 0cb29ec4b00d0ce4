// Handles summations of blamed lines per author.
package tally

import (
	"cmp"
	"log/slog"
	"maps"
	"path"
	"slices"
	"strings"
)

// Extension key used for files without an extension.
const NoExtension = "[none]"

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "tally")
	}

	return pkgLogger
}

// Returns the lower-cased extension of a repository path, including the
// leading dot, or NoExtension.
//
// Only the last path element is considered, so "lib.d/Makefile" has no
// extension.
func Extension(p string) string {
	ext := path.Ext(p)
	if ext == "" || ext == "." {
		return NoExtension
	}

	return strings.ToLower(ext)
}

// Lines attributed to a single author across the blamed files, plus the
// author's commit count.
//
// Invariant: TotalLines equals the sum over extensions and the sum over files.
// Extension and file keys remember the order they were first added in.
type AuthorStats struct {
	Author     string
	TotalLines int
	Commits    int

	linesByExt  map[string]int
	extOrder    []string
	linesByFile map[string]int
	fileOrder   []string
}

func NewAuthorStats(author string) *AuthorStats {
	return &AuthorStats{
		Author:      author,
		linesByExt:  map[string]int{},
		linesByFile: map[string]int{},
	}
}

// Attributes lines in file to this author. Non-positive counts are ignored.
func (s *AuthorStats) Add(file string, lines int) {
	if lines <= 0 {
		return
	}

	s.TotalLines += lines
	s.addExt(Extension(file), lines)
	s.addFile(file, lines)
}

func (s *AuthorStats) addExt(ext string, lines int) {
	if _, ok := s.linesByExt[ext]; !ok {
		s.extOrder = append(s.extOrder, ext)
	}

	s.linesByExt[ext] += lines
}

func (s *AuthorStats) addFile(file string, lines int) {
	if _, ok := s.linesByFile[file]; !ok {
		s.fileOrder = append(s.fileOrder, file)
	}

	s.linesByFile[file] += lines
}

// Extensions in the order they were first seen.
func (s *AuthorStats) Extensions() []string {
	return slices.Clone(s.extOrder)
}

func (s *AuthorStats) ExtensionLines(ext string) int {
	return s.linesByExt[ext]
}

// Files in the order they were first seen.
func (s *AuthorStats) Files() []string {
	return slices.Clone(s.fileOrder)
}

func (s *AuthorStats) FileLines(file string) int {
	return s.linesByFile[file]
}

// Number of distinct files this author has lines in.
func (s *AuthorStats) FileCount() int {
	return len(s.linesByFile)
}

func (s *AuthorStats) LinesByExtension() map[string]int {
	return maps.Clone(s.linesByExt)
}

func (s *AuthorStats) LinesByFile() map[string]int {
	return maps.Clone(s.linesByFile)
}

// Reorders file and extension keys as if files had been added in the order
// given by rank (lower first). Files missing from rank sort last by path.
//
// Concurrent aggregation adds files in completion order, which varies between
// runs; this restores an order that depends only on the input.
func (s *AuthorStats) Reorder(rank map[string]int) {
	slices.SortStableFunc(s.fileOrder, func(a, b string) int {
		ra, aok := rank[a]
		rb, bok := rank[b]

		switch {
		case aok && bok:
			return cmp.Compare(ra, rb)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})

	s.extOrder = s.extOrder[:0]
	seen := map[string]bool{}
	for _, file := range s.fileOrder {
		ext := Extension(file)
		if !seen[ext] {
			seen[ext] = true
			s.extOrder = append(s.extOrder, ext)
		}
	}
}

// Sets commit counts on existing records and creates zero-line records for
// authors that only show up in commit history.
//
// Counts overwrite whatever was there before; they are not accumulated.
func Enrich(stats map[string]*AuthorStats, commits map[string]int) {
	created := 0
	for author, count := range commits {
		s, ok := stats[author]
		if !ok {
			s = NewAuthorStats(author)
			stats[author] = s
			created += 1
		}

		s.Commits = count
	}

	logger().Debug(
		"enriched commit counts",
		"authors",
		len(commits),
		"created",
		created,
	)
}

// Returns the records sorted ascending by author name.
func Sorted(stats []*AuthorStats) []*AuthorStats {
	sorted := slices.Clone(stats)
	slices.SortStableFunc(sorted, func(a, b *AuthorStats) int {
		return strings.Compare(a.Author, b.Author)
	})

	return sorted
}

// Returns the records with the most lines first, ties broken by name.
func Rank(stats []*AuthorStats) []*AuthorStats {
	ranked := slices.Clone(stats)
	slices.SortStableFunc(ranked, func(a, b *AuthorStats) int {
		if c := cmp.Compare(b.TotalLines, a.TotalLines); c != 0 {
			return c
		}

		return strings.Compare(a.Author, b.Author)
	})

	return ranked
}

// Returns the records of a map, sorted by author name.
func Values(stats map[string]*AuthorStats) []*AuthorStats {
	return Sorted(slices.Collect(maps.Values(stats)))
}
