// Blame files in parallel and tally the results by author.
package concurrent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sinclairtarget/git-fame/internal/tally"
)

var ErrInvalidParallelism = errors.New("parallelism must be at least 1")

var pkgLogger *slog.Logger

func logger() *slog.Logger {
	if pkgLogger == nil {
		pkgLogger = slog.Default().With("package", "concurrent")
	}

	return pkgLogger
}

// Source of per-file line attribution. Implementations must be safe to call
// from several goroutines at once.
type Blamer interface {
	Blame(ctx context.Context, path string) (map[string]int, error)
}

type BlamerFunc func(ctx context.Context, path string) (map[string]int, error)

func (f BlamerFunc) Blame(
	ctx context.Context,
	path string,
) (map[string]int, error) {
	return f(ctx, path)
}

type Options struct {
	// Number of blame queries allowed in flight at once.
	Parallelism int

	// Called once per completed file, never concurrently. May be nil.
	OnProgress func(Progress)
}

// Default parallelism: one worker per CPU.
func DefaultParallelism() int {
	return runtime.NumCPU()
}

// Blames every file and tallies attributed lines by author.
//
// Blame queries run on a fixed pool of opts.Parallelism workers that each
// claim the next unclaimed file, so slow files don't hold up a whole batch.
// Results are merged one at a time.
//
// A failed file doesn't stop the others. Once every file has been processed,
// the tally of the files that succeeded is returned together with an
// *AttributionError listing the ones that didn't. If ctx is cancelled, no new
// files are claimed, in-flight results are dropped and ctx's error is
// returned with whatever was tallied so far.
func Aggregate(
	ctx context.Context,
	blamer Blamer,
	files []string,
	opts Options,
) (_ map[string]*tally.AuthorStats, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("error running concurrent blame: %w", err)
		}
	}()

	if opts.Parallelism < 1 {
		return nil, fmt.Errorf(
			"%w: got %d",
			ErrInvalidParallelism,
			opts.Parallelism,
		)
	}

	agg := newAggregator(files, opts.OnProgress)

	nWorkers := min(opts.Parallelism, len(files))
	logger().Debug(
		"starting workers",
		"workers",
		nWorkers,
		"files",
		len(files),
	)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i := range nWorkers {
		id := i + 1
		g.Go(func() error {
			return runWorker(gctx, id, blamer, agg)
		})
	}

	waitErr := g.Wait()

	stats, failures := agg.finish()
	logger().Debug(
		"blamed files",
		"duration_ms",
		time.Since(start).Milliseconds(),
		"authors",
		len(stats),
		"failures",
		len(failures),
	)

	if waitErr != nil {
		return stats, waitErr
	}

	if len(failures) > 0 {
		return stats, &AttributionError{Failures: failures}
	}

	return stats, nil
}
