package tally_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-fame/internal/tally"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"main.go", ".go"},
		{"src/App.JSX", ".jsx"},
		{"archive.tar.gz", ".gz"},
		{"Makefile", tally.NoExtension},
		{"lib.d/Makefile", tally.NoExtension},
		{"weird.", tally.NoExtension},
		{".gitignore", ".gitignore"},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			assert.Equal(t, test.expected, tally.Extension(test.path))
		})
	}
}

func TestAddKeepsTotalsConsistent(t *testing.T) {
	s := tally.NewAuthorStats("alice")
	s.Add("a.py", 10)
	s.Add("b.md", 5)
	s.Add("c.PY", 2)
	s.Add("a.py", 1)
	s.Add("ignored.go", 0)
	s.Add("ignored.rs", -3)

	assert.Equal(t, 18, s.TotalLines)
	assert.Equal(t, 3, s.FileCount())

	expectedExt := map[string]int{".py": 13, ".md": 5}
	if diff := cmp.Diff(expectedExt, s.LinesByExtension()); diff != "" {
		t.Errorf("wrong extension totals:\n%s", diff)
	}

	expectedFiles := map[string]int{"a.py": 11, "b.md": 5, "c.PY": 2}
	if diff := cmp.Diff(expectedFiles, s.LinesByFile()); diff != "" {
		t.Errorf("wrong file totals:\n%s", diff)
	}

	assert.Equal(t, []string{".py", ".md"}, s.Extensions())
	assert.Equal(t, []string{"a.py", "b.md", "c.PY"}, s.Files())

	sumExt := 0
	for _, ext := range s.Extensions() {
		sumExt += s.ExtensionLines(ext)
	}
	sumFiles := 0
	for _, file := range s.Files() {
		sumFiles += s.FileLines(file)
	}
	assert.Equal(t, s.TotalLines, sumExt)
	assert.Equal(t, s.TotalLines, sumFiles)
}

func TestAccessorsReturnCopies(t *testing.T) {
	s := tally.NewAuthorStats("alice")
	s.Add("a.go", 3)

	s.LinesByFile()["a.go"] = 100
	s.LinesByExtension()[".go"] = 100
	s.Files()[0] = "b.go"

	assert.Equal(t, 3, s.FileLines("a.go"))
	assert.Equal(t, 3, s.ExtensionLines(".go"))
	assert.Equal(t, []string{"a.go"}, s.Files())
}

func TestReorder(t *testing.T) {
	s := tally.NewAuthorStats("bob")
	s.Add("z.md", 1)
	s.Add("extra.txt", 1)
	s.Add("b.go", 1)
	s.Add("a.py", 1)

	rank := map[string]int{"a.py": 0, "b.go": 1, "z.md": 2}
	s.Reorder(rank)

	assert.Equal(t, []string{"a.py", "b.go", "z.md", "extra.txt"}, s.Files())
	assert.Equal(t, []string{".py", ".go", ".md", ".txt"}, s.Extensions())
	assert.Equal(t, 4, s.TotalLines)
}

func TestEnrich(t *testing.T) {
	alice := tally.NewAuthorStats("alice")
	alice.Add("a.py", 10)
	alice.Commits = 99

	stats := map[string]*tally.AuthorStats{"alice": alice}
	tally.Enrich(stats, map[string]int{"alice": 3, "carol": 2})

	require.Len(t, stats, 2)
	assert.Equal(t, 3, stats["alice"].Commits)
	assert.Equal(t, 10, stats["alice"].TotalLines)

	carol := stats["carol"]
	require.NotNil(t, carol)
	assert.Equal(t, 2, carol.Commits)
	assert.Equal(t, 0, carol.TotalLines)
	assert.Empty(t, carol.Files())
	assert.Empty(t, carol.Extensions())
}

func TestEnrichWithNoCommits(t *testing.T) {
	alice := tally.NewAuthorStats("alice")
	alice.Add("a.py", 1)

	stats := map[string]*tally.AuthorStats{"alice": alice}
	tally.Enrich(stats, map[string]int{})

	assert.Len(t, stats, 1)
	assert.Equal(t, 0, stats["alice"].Commits)
}

func TestRankAndSorted(t *testing.T) {
	mk := func(name string, lines int) *tally.AuthorStats {
		s := tally.NewAuthorStats(name)
		s.Add("f.go", lines)
		return s
	}

	stats := []*tally.AuthorStats{mk("carol", 5), mk("alice", 5), mk("bob", 9)}

	names := func(stats []*tally.AuthorStats) []string {
		out := []string{}
		for _, s := range stats {
			out = append(out, s.Author)
		}
		return out
	}

	assert.Equal(t, []string{"bob", "alice", "carol"}, names(tally.Rank(stats)))
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(tally.Sorted(stats)))
	assert.Equal(t, []string{"carol", "alice", "bob"}, names(stats))

	m := map[string]*tally.AuthorStats{}
	for _, s := range stats {
		m[s.Author] = s
	}
	assert.Equal(t, []string{"alice", "bob", "carol"}, names(tally.Values(m)))
}
