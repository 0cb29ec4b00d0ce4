package metrics_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
	"github.com/sinclairtarget/git-fame/internal/metrics"
)

func TestInstrument(t *testing.T) {
	r := metrics.NewRecorder()

	blamer := r.Instrument(concurrent.BlamerFunc(
		func(_ context.Context, path string) (map[string]int, error) {
			if path == "bad.go" {
				return nil, errors.New("boom")
			}
			return map[string]int{"alice": 1}, nil
		},
	))

	ctx := context.Background()
	_, err := blamer.Blame(ctx, "good.go")
	require.NoError(t, err)
	_, err = blamer.Blame(ctx, "bad.go")
	require.Error(t, err)

	count, err := testutil.GatherAndCount(
		r.Registry(),
		"git_fame_blame_failures_total",
		"git_fame_blame_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := r.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		switch family.GetName() {
		case "git_fame_blame_failures_total":
			assert.Equal(t, 1.0, family.GetMetric()[0].GetCounter().GetValue())
		case "git_fame_blame_duration_seconds":
			assert.Equal(
				t,
				uint64(2),
				family.GetMetric()[0].GetHistogram().GetSampleCount(),
			)
		}
	}
}

func TestWriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()
	r.SetFiles(12)
	r.SetAuthors(3)
	r.SetCacheStats(5, 7)
	r.SetRunDuration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "git_fame.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "git_fame_files 12")
	assert.Contains(t, text, "git_fame_authors 3")
	assert.Contains(t, text, `git_fame_cache_lookups_total{result="hit"} 5`)
	assert.Contains(t, text, `git_fame_cache_lookups_total{result="miss"} 7`)
	assert.Contains(t, text, "git_fame_run_duration_seconds 1.5")
}

func TestWriteTextfileBadPath(t *testing.T) {
	r := metrics.NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
