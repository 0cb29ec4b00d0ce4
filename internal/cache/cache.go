// Reuses blame results from earlier runs.
//
// Blaming a path at a fixed commit always gives the same answer, so results
// are stored per commit and looked up by path.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
)

const disableEnvVar = "GIT_FAME_NO_CACHE"

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "cache")
	}

	return pkgLogger
}

// Storage for the blame results of a single commit. Implementations don't
// need to be safe for concurrent use; Cache serializes access.
type Backend interface {
	Name() string
	Open() error
	Close() error
	Get(path string) (map[string]int, bool)
	Add(path string, counts map[string]int)
	Clear() error
}

type Cache struct {
	backend Backend

	mu     sync.Mutex
	hits   int
	misses int
}

func NewCache(b Backend) *Cache {
	logger().Debug(fmt.Sprintf("using backend %s", b.Name()))
	return &Cache{backend: b}
}

func (c *Cache) Name() string {
	return c.backend.Name()
}

func (c *Cache) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.backend.Open()
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	logger().Debug("closing cache", "hits", c.hits, "misses", c.misses)
	return c.backend.Close()
}

func (c *Cache) Get(path string) (map[string]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts, ok := c.backend.Get(path)
	if ok {
		c.hits += 1
	} else {
		c.misses += 1
	}

	return counts, ok
}

func (c *Cache) Add(path string, counts map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.backend.Add(path, counts)
}

func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.backend.Clear()
}

// Number of lookups that were and weren't found in the cache.
func (c *Cache) Stats() (hits int, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hits, c.misses
}

type cachingBlamer struct {
	cache *Cache
	next  concurrent.Blamer
}

// Wraps next so that results are served from c when possible and stored in c
// otherwise. Failed blames are not stored.
func NewBlamer(c *Cache, next concurrent.Blamer) concurrent.Blamer {
	return cachingBlamer{cache: c, next: next}
}

func (b cachingBlamer) Blame(
	ctx context.Context,
	path string,
) (map[string]int, error) {
	if counts, ok := b.cache.Get(path); ok {
		return counts, nil
	}

	counts, err := b.next.Blame(ctx, path)
	if err != nil {
		return nil, err
	}

	b.cache.Add(path, counts)
	return counts, nil
}

func IsCachingEnabled() bool {
	return os.Getenv(disableEnvVar) == ""
}

// Returns the directory git-fame caches live under, creating nothing.
func StorageDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "git-fame"), nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Join(
			errors.New("could not determine cache directory"),
			err,
		)
	}

	return filepath.Join(dir, "git-fame"), nil
}
