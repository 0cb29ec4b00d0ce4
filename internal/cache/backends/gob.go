package backends

import (
	"bufio"
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "cache.backends")
	}

	return pkgLogger
}

// Stores blame results for one commit on disk at a particular filepath.
//
// The whole cache is a single gzipped Gob-encoded map from path to author
// line counts. It is read into memory on Open() and, if anything was added,
// written back on Close(). The write goes to a temporary file that is then
// renamed over the old one, so an interrupted run never leaves a truncated
// cache behind.
//
// Caches for other commits in Dir are deleted on Close(); once a repository
// has moved on to a new commit they are unlikely to be useful again.
type GobBackend struct {
	Root string // Working tree the cache belongs to
	Dir  string
	Path string

	entries   map[string]map[string]int
	wasOpened bool
	isDirty   bool
}

const GobBackendName string = "gob"

func (b *GobBackend) Name() string {
	return GobBackendName
}

func (b *GobBackend) Open() (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error opening gob cache: %w", err)
		}
	}()

	b.wasOpened = true
	b.entries = map[string]map[string]int{}

	f, err := os.Open(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil // Nothing cached yet
	} else if err != nil {
		return err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		logger().Debug(
			"reading cache file",
			"path",
			b.Path,
			"size",
			humanize.Bytes(uint64(info.Size())),
		)
	}

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return err
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	err = dec.Decode(&b.entries)
	if err != nil {
		b.entries = map[string]map[string]int{}
		return err
	}

	return nil
}

func (b *GobBackend) Close() error {
	if !b.wasOpened {
		return nil
	}

	if b.isDirty {
		err := b.flush()
		if err != nil {
			return fmt.Errorf("error writing gob cache: %w", err)
		}
		b.isDirty = false
	}

	// Remove caches for other commits
	matches, err := filepath.Glob(filepath.Join(b.Dir, "*"))
	if err != nil {
		panic(err) // Bad pattern
	}

	for _, match := range matches {
		if match == b.Path {
			continue
		}

		err := os.RemoveAll(match)
		if err != nil {
			logger().Warn(
				fmt.Sprintf("failed to delete old cache file: %v", err),
			)
		}
	}

	return nil
}

func (b *GobBackend) Get(path string) (map[string]int, bool) {
	if !b.wasOpened {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	counts, ok := b.entries[path]
	if !ok {
		return nil, false
	}

	return maps.Clone(counts), true
}

func (b *GobBackend) Add(path string, counts map[string]int) {
	if !b.wasOpened {
		panic("cache not yet open. Did you forget to call Open()?")
	}

	b.entries[path] = maps.Clone(counts)
	b.isDirty = true
}

func (b *GobBackend) Clear() error {
	b.entries = map[string]map[string]int{}
	b.isDirty = false

	err := os.RemoveAll(b.Dir)
	if err != nil {
		return err
	}

	return nil
}

func (b *GobBackend) flush() (err error) {
	err = os.MkdirAll(b.Dir, 0o700)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.Dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	zw, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
	if err != nil {
		return err
	}

	enc := gob.NewEncoder(zw)
	err = enc.Encode(b.entries)
	if err != nil {
		return err
	}

	err = zw.Close()
	if err != nil {
		return err
	}

	err = w.Flush()
	if err != nil {
		return err
	}

	err = tmp.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmp.Name(), b.Path)
}

// Directory holding the caches for the repository rooted at gitRootPath.
func GobCacheDir(prefix string, gitRootPath string) string {
	// Directory name includes hash of path to repo so we don't collide with
	// caches for other repos that have the same base name.
	h := fnv.New32()
	h.Write([]byte(gitRootPath))

	base := filepath.Base(gitRootPath)
	dirname := fmt.Sprintf("%s-%x", base, h.Sum32())
	return filepath.Join(prefix, dirname)
}

// Cache file for a commit. The mailmap hash is part of the name since
// remapping authors changes every blame result.
func GobCacheFilename(commit string, mailmapHash uint32) string {
	return fmt.Sprintf("%s-%08x.gob.gz", commit, mailmapHash)
}
