package concurrent

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sinclairtarget/git-fame/internal/tally"
)

// Shared state for one Aggregate call.
//
// The cursor hands out files; everything else is guarded by mu.
type aggregator struct {
	files      []string
	cursor     atomic.Int64
	start      time.Time
	onProgress func(Progress)

	mu       sync.Mutex
	stats    map[string]*tally.AuthorStats
	failures []*FileError
	finished int
}

func newAggregator(files []string, onProgress func(Progress)) *aggregator {
	return &aggregator{
		files:      files,
		start:      time.Now(),
		onProgress: onProgress,
		stats:      map[string]*tally.AuthorStats{},
	}
}

// Claims the next file nobody has worked on yet.
func (a *aggregator) claim() (string, bool) {
	i := a.cursor.Add(1) - 1
	if i >= int64(len(a.files)) {
		return "", false
	}

	return a.files[i], true
}

// Merges the blame result for one file and reports progress.
func (a *aggregator) record(path string, counts map[string]int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.failures = append(a.failures, &FileError{Path: path, Err: err})
	} else {
		for author, lines := range counts {
			s, ok := a.stats[author]
			if !ok {
				s = tally.NewAuthorStats(author)
				a.stats[author] = s
			}

			s.Add(path, lines)
		}
	}

	a.finished += 1
	if a.onProgress != nil {
		a.onProgress(
			NewProgress(a.finished, len(a.files), time.Since(a.start)),
		)
	}
}

// Puts keys and failures back in input order. Only call once every worker
// has exited.
func (a *aggregator) finish() (map[string]*tally.AuthorStats, []*FileError) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rank := make(map[string]int, len(a.files))
	for i, file := range a.files {
		if _, ok := rank[file]; !ok {
			rank[file] = i
		}
	}

	for _, s := range a.stats {
		s.Reorder(rank)
	}

	slices.SortStableFunc(a.failures, func(x, y *FileError) int {
		return cmp.Compare(rank[x.Path], rank[y.Path])
	})

	return a.stats, a.failures
}

// A worker that blames files until there are none left to claim.
func runWorker(
	ctx context.Context,
	id int,
	blamer Blamer,
	agg *aggregator,
) (err error) {
	logger := logger().With("workerId", id)
	logger.Debug("worker started")

	defer func() {
		if err != nil {
			err = fmt.Errorf("error in worker %d: %w", id, err)
		}

		logger.Debug("worker exited")
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		path, ok := agg.claim()
		if !ok {
			return nil
		}

		counts, blameErr := blamer.Blame(ctx, path)

		// Cancelled mid-query: drop the result rather than merge something
		// that may be partial.
		if err := ctx.Err(); err != nil {
			return err
		}

		if blameErr != nil {
			logger.Debug("blame failed", "path", path, "error", blameErr)
		}

		agg.record(path, counts, blameErr)
	}
}
