package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sinclairtarget/git-fame/internal/cache"
	cacheBackends "github.com/sinclairtarget/git-fame/internal/cache/backends"
	"github.com/sinclairtarget/git-fame/internal/git"
)

func warnFail(err error) *cache.Cache {
	logger().Warn(
		fmt.Sprintf("failed to initialize cache: %v", err),
	)
	logger().Warn("disabling caching")
	return cache.NewCache(cacheBackends.NoopBackend{})
}

// Returns the repository's blame cache for commit, already opened.
//
// Problems setting up the cache never stop a run; we just don't cache.
func getCache(
	ctx context.Context,
	repo git.Repo,
	commit string,
	disabled bool,
) *cache.Cache {
	if disabled || !cache.IsCachingEnabled() {
		return cache.NewCache(cacheBackends.NoopBackend{})
	}

	backend, err := gobBackend(ctx, repo)
	if err != nil {
		return warnFail(err)
	}

	h := fnv.New32()
	err = git.MailmapHash(backend.Root, h)
	if err != nil {
		return warnFail(err)
	}

	backend.Path = filepath.Join(
		backend.Dir,
		cacheBackends.GobCacheFilename(commit, h.Sum32()),
	)

	c := cache.NewCache(backend)
	err = c.Open()
	if err != nil {
		return warnFail(err)
	}

	logger().Debug("cache initialized", "path", backend.Path)
	return c
}

// A gob backend pointing at the repository's cache directory, without a file.
func gobBackend(
	ctx context.Context,
	repo git.Repo,
) (*cacheBackends.GobBackend, error) {
	storageDir, err := cache.StorageDir()
	if err != nil {
		return nil, err
	}

	root, err := repo.TopLevel(ctx)
	if err != nil {
		return nil, err
	}

	dir := cacheBackends.GobCacheDir(storageDir, root)
	return &cacheBackends.GobBackend{Root: root, Dir: dir}, nil
}

func cacheCmd(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the blame cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete cached blame results for the repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *globals)
			if err != nil {
				return err
			}

			backend, err := gobBackend(cmd.Context(), git.Repo{Dir: cfg.Repo})
			if err != nil {
				return fmt.Errorf("error locating cache: %w", err)
			}

			err = cache.NewCache(backend).Clear()
			if err != nil {
				return fmt.Errorf("error clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", backend.Dir)
			return nil
		},
	})

	return cmd
}
