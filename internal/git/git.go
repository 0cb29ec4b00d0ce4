/*
* Wraps access to data needed from Git.
*
* We invoke Git directly as a subprocess and parse the output rather than using
* git2go/libgit2.
 */
package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sinclairtarget/git-fame/internal/git/cmd"
)

type SubprocessErr = cmd.SubprocessErr

var commitHashRegexp = regexp.MustCompile(`^[a-f0-9]{40}([a-f0-9]{24})?$`)

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "git")
	}

	return pkgLogger
}

// A repository on disk that we can query for line attribution, commit counts
// and tracked files.
//
// Dir may be any path inside the working tree. An empty Dir means the current
// working directory.
type Repo struct {
	Dir string
}

// Returns the files in the tree of rev that pass the filter, in tree order.
// Paths are relative to the repository root, so the other queries should run
// with Dir set to the root as well (see TopLevel).
func (r Repo) TrackedFiles(
	ctx context.Context,
	rev string,
	filter FileFilter,
) (_ []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error listing tracked files: %w", err)
		}
	}()

	subprocess, err := cmd.RunLsTree(ctx, r.Dir, rev)
	if err != nil {
		return nil, err
	}

	entries, finish := subprocess.StdoutNullDelimitedLines()
	paths, parseErr := ParseTree(entries)
	if scanErr := finish(); scanErr != nil && parseErr == nil {
		parseErr = scanErr
	}

	waitErr := subprocess.Wait()
	if err := errors.Join(waitErr, parseErr); err != nil {
		return nil, err
	}

	files := filter.Apply(paths)
	logger().Debug("listed tracked files", "rev", rev, "count", len(files))
	return files, nil
}

// Returns the total number of commits reachable from rev per author.
func (r Repo) CommitCounts(
	ctx context.Context,
	rev string,
) (_ map[string]int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error getting commit counts: %w", err)
		}
	}()

	subprocess, err := cmd.RunShortlog(ctx, r.Dir, rev)
	if err != nil {
		return nil, err
	}

	lines, finish := subprocess.StdoutLines()
	counts, parseErr := ParseShortlog(lines)
	if scanErr := finish(); scanErr != nil && parseErr == nil {
		parseErr = scanErr
	}

	waitErr := subprocess.Wait()
	if err := errors.Join(waitErr, parseErr); err != nil {
		return nil, err
	}

	return counts, nil
}

// Returns the number of lines in path at rev last changed by each author.
func (r Repo) Blame(
	ctx context.Context,
	rev string,
	path string,
) (_ map[string]int, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error blaming \"%s\": %w", path, err)
		}
	}()

	subprocess, err := cmd.RunBlame(ctx, r.Dir, rev, path)
	if err != nil {
		return nil, err
	}

	lines, finish := subprocess.StdoutLines()
	counts, parseErr := ParseBlame(lines)
	if scanErr := finish(); scanErr != nil {
		parseErr = scanErr
	}

	// A failed subprocess explains a parse failure better than the parse
	// failure does, so report it first.
	waitErr := subprocess.Wait()
	if waitErr != nil {
		return nil, waitErr
	}

	if parseErr != nil {
		return nil, parseErr
	}

	return counts, nil
}

// Resolves rev to the full hash of the commit it names.
func (r Repo) ResolveRevision(
	ctx context.Context,
	rev string,
) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error resolving revision \"%s\": %w", rev, err)
		}
	}()

	subprocess, err := cmd.RunRevParseCommit(ctx, r.Dir, rev)
	if err != nil {
		return "", err
	}

	hash, err := firstLine(subprocess)
	if err != nil {
		return "", err
	}

	if !commitHashRegexp.MatchString(hash) {
		return "", fmt.Errorf("unexpected rev-parse output \"%s\"", hash)
	}

	return hash, nil
}

// Returns the absolute path of the root of the working tree.
func (r Repo) TopLevel(ctx context.Context) (_ string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error finding repository root: %w", err)
		}
	}()

	subprocess, err := cmd.RunRevParseTopLevel(ctx, r.Dir)
	if err != nil {
		return "", err
	}

	return firstLine(subprocess)
}

func firstLine(subprocess *cmd.Subprocess) (string, error) {
	lines, finish := subprocess.StdoutLines()

	var first string
	for line := range lines {
		first = strings.TrimSpace(line)
		break
	}

	scanErr := finish()
	if err := subprocess.Wait(); err != nil {
		return "", err
	}

	if scanErr != nil {
		return "", scanErr
	}

	if first == "" {
		return "", errors.New("no output from git")
	}

	return first, nil
}

// Binds Repo.Blame to a single revision so it can serve as a per-file
// attribution source.
type RevBlamer struct {
	Repo Repo
	Rev  string
}

func (b RevBlamer) Blame(ctx context.Context, path string) (map[string]int, error) {
	return b.Repo.Blame(ctx, b.Rev, path)
}
