// Package metrics records how blame queries behave during a run.
//
// Metrics live in a private Prometheus registry. A one-shot CLI has nothing
// to scrape, so the registry can be written out in the text exposition format
// for node_exporter's textfile collector.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sinclairtarget/git-fame/internal/concurrent"
)

const namespace = "git_fame"

// Metrics for a single run.
type Recorder struct {
	registry *prometheus.Registry

	blameDuration prometheus.Histogram
	blameFailures prometheus.Counter
	filesTotal    prometheus.Gauge
	authorsTotal  prometheus.Gauge
	cacheLookups  *prometheus.CounterVec
	runDuration   prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		blameDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blame_duration_seconds",
			Help:      "Time taken by git blame for a single file.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		blameFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blame_failures_total",
			Help:      "Files for which git blame failed.",
		}),
		filesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "files",
			Help:      "Tracked files selected for blaming.",
		}),
		authorsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "authors",
			Help:      "Authors in the final report.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Blame cache lookups by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the whole run.",
		}),
	}

	r.registry.MustRegister(
		r.blameDuration,
		r.blameFailures,
		r.filesTotal,
		r.authorsTotal,
		r.cacheLookups,
		r.runDuration,
	)

	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) SetFiles(n int) {
	r.filesTotal.Set(float64(n))
}

func (r *Recorder) SetAuthors(n int) {
	r.authorsTotal.Set(float64(n))
}

func (r *Recorder) SetCacheStats(hits int, misses int) {
	r.cacheLookups.WithLabelValues("hit").Add(float64(hits))
	r.cacheLookups.WithLabelValues("miss").Add(float64(misses))
}

func (r *Recorder) SetRunDuration(d time.Duration) {
	r.runDuration.Set(d.Seconds())
}

// Writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return fmt.Errorf("error writing metrics to %s: %w", path, err)
	}

	return nil
}

type instrumentedBlamer struct {
	recorder *Recorder
	next     concurrent.Blamer
}

// Wraps next so every call is timed and failures are counted.
func (r *Recorder) Instrument(next concurrent.Blamer) concurrent.Blamer {
	return instrumentedBlamer{recorder: r, next: next}
}

func (b instrumentedBlamer) Blame(
	ctx context.Context,
	path string,
) (map[string]int, error) {
	start := time.Now()
	counts, err := b.next.Blame(ctx, path)
	b.recorder.blameDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		b.recorder.blameFailures.Inc()
	}

	return counts, err
}
