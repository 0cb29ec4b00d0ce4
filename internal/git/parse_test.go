package git_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-fame/internal/git"
)

func blameBlock(hash string, author string, content string) []string {
	return []string{
		hash + " 1 1 1",
		"author " + author,
		"author-mail <" + strings.ToLower(author) + "@example.com>",
		"author-time 1700000000",
		"author-tz +0000",
		"committer " + author,
		"committer-time 1700000000",
		"summary Some commit",
		"filename main.go",
		"\t" + content,
	}
}

func blameOutput() []string {
	out := []string{}
	out = append(out, blameBlock("2e5b1c0a8f1d9b3c4e5f60718293a4b5c6d7e8f9", "Jane Doe", "package main")...)
	out = append(out, blameBlock("2e5b1c0a8f1d9b3c4e5f60718293a4b5c6d7e8f9", "Jane Doe", "")...)
	out = append(out, blameBlock("9f8e7d6c5b4a39281706f5e4d3c2b1a098765432", "Bob", "author fake header in source")...)
	return out
}

func TestParseBlame(t *testing.T) {
	lines := slices.Values(blameOutput())

	counts, err := git.ParseBlame(lines)
	require.NoError(t, err)

	expected := map[string]int{"Jane Doe": 2, "Bob": 1}
	if diff := cmp.Diff(expected, counts); diff != "" {
		t.Errorf("wrong counts:\n%s", diff)
	}
}

func TestParseBlameEmpty(t *testing.T) {
	counts, err := git.ParseBlame(slices.Values([]string{}))
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestParseBlameMalformed(t *testing.T) {
	lines := slices.Values([]string{
		"2e5b1c0a8f1d9b3c4e5f60718293a4b5c6d7e8f9 1 1 1",
		"author Jane Doe",
		"filename main.go",
	})

	_, err := git.ParseBlame(lines)
	assert.ErrorContains(t, err, "malformed blame output")
}

func TestParseShortlog(t *testing.T) {
	lines := slices.Values([]string{
		"    42\tJane Doe",
		"     3\tBob ",
		"",
		"garbage without a tab",
		"     1\tBob",
	})

	counts, err := git.ParseShortlog(lines)
	require.NoError(t, err)

	expected := map[string]int{"Jane Doe": 42, "Bob": 4}
	if diff := cmp.Diff(expected, counts); diff != "" {
		t.Errorf("wrong counts:\n%s", diff)
	}
}

func TestParseShortlogBadCount(t *testing.T) {
	_, err := git.ParseShortlog(slices.Values([]string{"  many\tJane"}))
	assert.Error(t, err)
}

func TestFileFilter(t *testing.T) {
	files := []string{
		"src/main.go",
		"src/main_test.go",
		"README.md",
		"vendor/lib/LIB.GO",
		"docs/guide.MD",
		"",
	}

	tests := []struct {
		name     string
		include  string
		exclude  string
		expected []string
	}{
		{
			name:    "no patterns",
			include: "",
			exclude: "",
			expected: []string{
				"src/main.go",
				"src/main_test.go",
				"README.md",
				"vendor/lib/LIB.GO",
				"docs/guide.MD",
			},
		},
		{
			name:     "include is case-insensitive",
			include:  `\.go$`,
			expected: []string{"src/main.go", "src/main_test.go", "vendor/lib/LIB.GO"},
		},
		{
			name:     "exclude wins over include",
			include:  `\.go$`,
			exclude:  `^vendor/|_test`,
			expected: []string{"src/main.go"},
		},
		{
			name:     "exclude only",
			exclude:  `\.md$`,
			expected: []string{"src/main.go", "src/main_test.go", "vendor/lib/LIB.GO"},
		},
		{
			name:     "nothing matches",
			include:  `\.rs$`,
			expected: []string{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			filter, err := git.NewFileFilter(test.include, test.exclude)
			require.NoError(t, err)

			if diff := cmp.Diff(test.expected, filter.Apply(files)); diff != "" {
				t.Errorf("wrong files:\n%s", diff)
			}
		})
	}
}

func TestFileFilterBadPattern(t *testing.T) {
	_, err := git.NewFileFilter("(", "")
	assert.ErrorContains(t, err, "include")

	_, err = git.NewFileFilter("", "[")
	assert.ErrorContains(t, err, "exclude")
}

func TestParseTree(t *testing.T) {
	entries := slices.Values([]string{
		"100644 blob 8ab686eafeb1f44702738c8b0f24f2567c36da6d\tREADME.md",
		"100755 blob 3b18e512dba79e4c8300dd08aeb37f8e728b8dad\tbin/run tool.sh",
		"120000 blob 5e1c309dae7f45e0f39b1bf3ac3cd9db12e7d689\tlink",
		"160000 commit 4b825dc642cb6eb9a060e54bf8d69288fbee4904\tvendor/lib",
		"",
	})

	paths, err := git.ParseTree(entries)
	require.NoError(t, err)

	expected := []string{"README.md", "bin/run tool.sh", "link"}
	if diff := cmp.Diff(expected, paths); diff != "" {
		t.Errorf("wrong paths:\n%s", diff)
	}
}

func TestParseTreeMalformed(t *testing.T) {
	_, err := git.ParseTree(slices.Values([]string{"100644 blob README.md"}))
	assert.ErrorContains(t, err, "malformed ls-tree entry")

	_, err = git.ParseTree(slices.Values([]string{"blob abc\tREADME.md"}))
	assert.ErrorContains(t, err, "malformed ls-tree entry")
}
