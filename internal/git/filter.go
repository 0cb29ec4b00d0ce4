package git

import (
	"fmt"
	"regexp"
	"strings"
)

// Decides which tracked files get blamed.
//
// Exclude is checked before include. A nil pattern matches everything for
// include and nothing for exclude.
type FileFilter struct {
	Include *regexp.Regexp
	Exclude *regexp.Regexp
}

// Compiles include/exclude patterns. Matching is case-insensitive; blank
// patterns are ignored.
func NewFileFilter(include string, exclude string) (FileFilter, error) {
	var filter FileFilter

	var err error
	filter.Include, err = compilePattern(include)
	if err != nil {
		return filter, fmt.Errorf("bad include pattern: %w", err)
	}

	filter.Exclude, err = compilePattern(exclude)
	if err != nil {
		return filter, fmt.Errorf("bad exclude pattern: %w", err)
	}

	return filter, nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, nil
	}

	return regexp.Compile("(?i)" + pattern)
}

func (f FileFilter) Allow(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}

	if f.Exclude != nil && f.Exclude.MatchString(path) {
		return false
	}

	if f.Include != nil && !f.Include.MatchString(path) {
		return false
	}

	return true
}

func (f FileFilter) Apply(paths []string) []string {
	filtered := []string{}
	for _, path := range paths {
		if f.Allow(path) {
			filtered = append(filtered, path)
		}
	}

	return filtered
}
