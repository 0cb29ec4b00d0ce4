/*
* Handles invoking Git as a subprocess.
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Blame porcelain output repeats the source line verbatim, so very long lines
// in minified files need a bigger scan buffer than bufio's default.
const maxLineSize = 16 * 1024 * 1024

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "git.cmd")
	}

	return pkgLogger
}

// Runs git ls-tree recursively over the whole tree of rev. Paths are
// relative to the repository root no matter which directory we run in.
func RunLsTree(ctx context.Context, dir string, rev string) (*Subprocess, error) {
	if rev == "" {
		return nil, errors.New("git ls-tree requires revision spec")
	}

	args := []string{
		"ls-tree",
		"-r",
		"-z",
		"--full-tree",
		rev,
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git ls-tree: %w", err)
	}

	return subprocess, nil
}

// Runs git shortlog in summary mode.
//
// Shortlog reads from stdin when it is not attached to a terminal and no
// revision is given, so a revision is always required here.
func RunShortlog(ctx context.Context, dir string, rev string) (*Subprocess, error) {
	if rev == "" {
		return nil, errors.New("git shortlog requires revision spec")
	}

	args := []string{
		"shortlog",
		"-s",
		"-n",
		rev,
		"--",
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git shortlog: %w", err)
	}

	return subprocess, nil
}

// Runs git blame with one porcelain header block per line.
func RunBlame(
	ctx context.Context,
	dir string,
	rev string,
	path string,
) (*Subprocess, error) {
	if rev == "" {
		return nil, errors.New("git blame requires revision spec")
	}

	args := []string{
		"blame",
		"--line-porcelain",
		rev,
		"--",
		path,
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git blame: %w", err)
	}

	return subprocess, nil
}

// Runs git rev-parse to turn a revision into a full commit hash.
func RunRevParseCommit(
	ctx context.Context,
	dir string,
	rev string,
) (*Subprocess, error) {
	args := []string{
		"rev-parse",
		"--verify",
		"--end-of-options",
		rev + "^{commit}",
	}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	return subprocess, nil
}

func RunRevParseTopLevel(ctx context.Context, dir string) (*Subprocess, error) {
	args := []string{"rev-parse", "--show-toplevel"}

	subprocess, err := run(ctx, dir, args)
	if err != nil {
		return nil, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	return subprocess, nil
}
