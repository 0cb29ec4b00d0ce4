package git

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

const (
	authorHeader  = "author "
	contentPrefix = "\t"
)

// Counts lines attributed to each author in git blame --line-porcelain output.
//
// Every line of the blamed file gets its own header block, which always
// contains an "author" header and ends with the line content prefixed by a
// tab. Content lines are the only lines starting with a tab, so a source line
// that happens to read "author ..." is never mistaken for a header.
func ParseBlame(lines iter.Seq[string]) (map[string]int, error) {
	counts := map[string]int{}

	nAuthors := 0
	nContent := 0
	for line := range lines {
		if strings.HasPrefix(line, contentPrefix) {
			nContent += 1
			continue
		}

		if author, ok := strings.CutPrefix(line, authorHeader); ok {
			counts[strings.TrimSpace(author)] += 1
			nAuthors += 1
		}
	}

	if nAuthors != nContent {
		return nil, fmt.Errorf(
			"malformed blame output: %d author headers for %d lines",
			nAuthors,
			nContent,
		)
	}

	return counts, nil
}

// Parses git shortlog -s output into commit counts by author.
//
// Lines look like "    42\tJane Doe". Lines without a tab are ignored.
func ParseShortlog(lines iter.Seq[string]) (map[string]int, error) {
	counts := map[string]int{}

	for line := range lines {
		countField, author, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}

		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(countField))
		if err != nil {
			return nil, fmt.Errorf(
				"could not parse commit count on line \"%s\": %w",
				line,
				err,
			)
		}

		counts[author] += count
	}

	return counts, nil
}

// Parses NUL-delimited git ls-tree -r output into the paths of file blobs.
//
// Entries look like "<mode> <type> <object>\t<path>". Submodules show up as
// "commit" entries and are skipped, since there is nothing in this
// repository to blame for them.
func ParseTree(entries iter.Seq[string]) ([]string, error) {
	paths := []string{}

	for entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		meta, path, ok := strings.Cut(entry, "\t")
		if !ok {
			return nil, fmt.Errorf("malformed ls-tree entry \"%s\"", entry)
		}

		fields := strings.Fields(meta)
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed ls-tree entry \"%s\"", entry)
		}

		if fields[1] != "blob" {
			continue
		}

		paths = append(paths, path)
	}

	return paths, nil
}
