package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sinclairtarget/git-fame/internal/cache"
	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/config"
	"github.com/sinclairtarget/git-fame/internal/export"
	"github.com/sinclairtarget/git-fame/internal/git"
	"github.com/sinclairtarget/git-fame/internal/metrics"
	"github.com/sinclairtarget/git-fame/internal/pretty"
	"github.com/sinclairtarget/git-fame/internal/tally"
)

// The default command: blames every tracked file, writes the result file and
// prints a summary table to stdout.
//
// If some files can't be blamed, the report covers the rest and the returned
// error is a *concurrent.AttributionError.
func fame(ctx context.Context, cfg *config.Config, limit int) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running git-fame: %w", err)
		}
	}()

	logger().Debug(
		"called fame()",
		"repo",
		cfg.Repo,
		"branch",
		cfg.Branch,
		"include",
		cfg.Include,
		"exclude",
		cfg.Exclude,
		"parallel",
		cfg.Parallel,
		"output",
		cfg.Output,
		"verboseOutput",
		cfg.VerboseOutput,
		"merge",
		cfg.Merge,
	)

	filter, err := cfg.FileFilter()
	if err != nil {
		return err
	}

	groups, err := cfg.AliasGroups()
	if err != nil {
		return err
	}

	for _, collision := range tally.DetectCollisions(groups) {
		pretty.Warnf(os.Stderr, "%s; the first group wins", collision)
	}

	recorder := metrics.NewRecorder()

	repo, commit, err := openRepo(ctx, cfg.Repo, cfg.Branch)
	if err != nil {
		return err
	}

	files, err := repo.TrackedFiles(ctx, commit, filter)
	if err != nil {
		return err
	}
	recorder.SetFiles(len(files))

	blameCache := getCache(ctx, repo, commit, cfg.NoCache)
	defer func() {
		closeErr := blameCache.Close()
		if closeErr != nil {
			logger().Warn(fmt.Sprintf("failed to write cache: %v", closeErr))
		}
	}()

	stats, attrErr, err := blameFiles(ctx, cfg, repo, commit, files, blameCache, recorder)
	if err != nil {
		return err
	}

	commitCounts, err := repo.CommitCounts(ctx, commit)
	if err != nil {
		return err
	}
	tally.Enrich(stats, commitCounts)

	merged := tally.Merge(tally.Values(stats), groups)
	recorder.SetAuthors(len(merged))

	if cfg.Output != "" {
		err = writeOutput(cfg.Output, merged, cfg.VerboseOutput)
		if err != nil {
			return err
		}
	}

	writeSummary(os.Stdout, merged, limit)

	if attrErr != nil {
		for _, failure := range attrErr.Failures {
			pretty.Warnf(os.Stderr, "%v", failure)
		}

		pretty.Warnf(
			os.Stderr,
			"%d of %d files could not be blamed and are missing from the report",
			len(attrErr.Failures),
			len(files),
		)
	}

	hits, misses := blameCache.Stats()
	recorder.SetCacheStats(hits, misses)
	recorder.SetRunDuration(time.Since(progStart))

	if cfg.MetricsFile != "" {
		err = recorder.WriteTextfile(cfg.MetricsFile)
		if err != nil {
			return err
		}
	}

	if attrErr != nil {
		return attrErr
	}

	return nil
}

// Returns the repository rooted at the top of the working tree containing dir,
// and the commit branch resolves to.
//
// Listed paths are root-relative, so every later query runs from the root.
// The revision is pinned so every query sees the same commit even if the
// branch moves during the run.
func openRepo(
	ctx context.Context,
	dir string,
	branch string,
) (git.Repo, string, error) {
	root, err := git.Repo{Dir: dir}.TopLevel(ctx)
	if err != nil {
		return git.Repo{}, "", err
	}

	repo := git.Repo{Dir: root}
	commit, err := repo.ResolveRevision(ctx, branch)
	if err != nil {
		return git.Repo{}, "", err
	}

	logger().Debug("opened repository", "root", root, "commit", commit)
	return repo, commit, nil
}

// Runs the concurrent blame with a progress display. Per-file failures come
// back as attrErr; err is only set when nothing useful was produced.
func blameFiles(
	ctx context.Context,
	cfg *config.Config,
	repo git.Repo,
	commit string,
	files []string,
	blameCache *cache.Cache,
	recorder *metrics.Recorder,
) (
	stats map[string]*tally.AuthorStats,
	attrErr *concurrent.AttributionError,
	err error,
) {
	var blamer concurrent.Blamer = git.RevBlamer{Repo: repo, Rev: commit}
	blamer = recorder.Instrument(blamer)
	blamer = cache.NewBlamer(blameCache, blamer)

	opts := concurrent.Options{Parallelism: cfg.Parallel}

	if pretty.AllowDynamic(os.Stderr) {
		bar := pretty.NewProgressBar(os.Stderr)
		defer bar.Finish()

		opts.OnProgress = bar.Update
	} else {
		opts.OnProgress = func(p concurrent.Progress) {
			logger().Debug(
				"progress",
				"finished",
				p.Finished,
				"total",
				p.Total,
				"remaining",
				p.Remaining.Round(time.Second),
			)
		}
	}

	stats, err = concurrent.Aggregate(ctx, blamer, files, opts)
	if errors.As(err, &attrErr) {
		return stats, attrErr, nil
	} else if err != nil {
		return nil, nil, err
	}

	return stats, nil, nil
}

func writeOutput(
	path string,
	stats []*tally.AuthorStats,
	verbose bool,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error writing output file: %w", err)
		}
	}()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
	}()

	err = export.Write(f, stats, verbose)
	if err != nil {
		return err
	}

	logger().Debug("wrote output file", "path", path)
	return nil
}
