package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-fame/internal/config"
)

func filesCmd(globals *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the files that would be blamed",
		Long: `Prints the files in the tree of the configured branch that pass the
include and exclude filters, one per line, relative to the repository root,
in the order they would be blamed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			defer func() {
				if err != nil {
					err = fmt.Errorf("error running \"files\": %w", err)
				}
			}()

			cfg, err := loadConfig(cmd, *globals)
			if err != nil {
				return err
			}

			return listFiles(cmd.Context(), cfg, os.Stdout)
		},
	}
}

// Writes the files fame would blame to w, one per line.
func listFiles(ctx context.Context, cfg *config.Config, w io.Writer) error {
	logger().Debug(
		"called listFiles()",
		"repo",
		cfg.Repo,
		"branch",
		cfg.Branch,
		"include",
		cfg.Include,
		"exclude",
		cfg.Exclude,
	)

	filter, err := cfg.FileFilter()
	if err != nil {
		return err
	}

	repo, commit, err := openRepo(ctx, cfg.Repo, cfg.Branch)
	if err != nil {
		return err
	}

	files, err := repo.TrackedFiles(ctx, commit, filter)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, file := range files {
		fmt.Fprintln(bw, file)
	}

	return bw.Flush()
}
