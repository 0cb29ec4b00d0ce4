package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/format"
	"github.com/sinclairtarget/git-fame/internal/git"
	"github.com/sinclairtarget/git-fame/internal/pretty"
	"github.com/sinclairtarget/git-fame/internal/tally"
)

// Blames just the given paths and prints lines per author. Skips the cache,
// shortlog and aliases, so it shows exactly what git blame attributes.
func blameCmd(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "blame <path>...",
		Short: "Print lines per author for specific files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) (err error) {
			defer func() {
				if err != nil {
					err = fmt.Errorf("error running \"blame\": %w", err)
				}
			}()

			cfg, err := loadConfig(cmd, *globals)
			if err != nil {
				return err
			}

			logger().Debug(
				"called blame()",
				"repo",
				cfg.Repo,
				"branch",
				cfg.Branch,
				"paths",
				paths,
			)

			ctx := cmd.Context()
			repo := git.Repo{Dir: cfg.Repo}

			commit, err := repo.ResolveRevision(ctx, cfg.Branch)
			if err != nil {
				return err
			}

			stats, err := concurrent.Aggregate(
				ctx,
				git.RevBlamer{Repo: repo, Rev: commit},
				paths,
				concurrent.Options{Parallelism: cfg.Parallel},
			)

			var attrErr *concurrent.AttributionError
			if err != nil && !errors.As(err, &attrErr) {
				return err
			}

			for _, s := range tally.Rank(tally.Values(stats)) {
				fmt.Fprintf(
					os.Stdout,
					"%8s  %s\n",
					format.Number(s.TotalLines),
					s.Author,
				)

				for _, file := range s.Files() {
					fmt.Fprintf(
						os.Stdout,
						"%8s    %s\n",
						format.Number(s.FileLines(file)),
						file,
					)
				}
			}

			if attrErr != nil {
				for _, failure := range attrErr.Failures {
					pretty.Warnf(os.Stderr, "%v", failure)
				}
				return attrErr
			}

			return nil
		},
	}
}
