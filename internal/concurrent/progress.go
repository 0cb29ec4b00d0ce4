package concurrent

import (
	"time"
)

// Snapshot of how far along an Aggregate call is.
type Progress struct {
	Finished       int
	Total          int
	Elapsed        time.Duration
	EstimatedTotal time.Duration
	Remaining      time.Duration
}

// Extrapolates total and remaining time linearly from the files finished so
// far. With nothing finished there is nothing to extrapolate from, so both
// estimates are zero.
func NewProgress(finished int, total int, elapsed time.Duration) Progress {
	p := Progress{
		Finished: finished,
		Total:    total,
		Elapsed:  elapsed,
	}

	if finished <= 0 {
		return p
	}

	estimate := float64(elapsed) * float64(total) / float64(finished)
	p.EstimatedTotal = time.Duration(estimate)
	p.Remaining = max(p.EstimatedTotal-elapsed, 0)
	return p
}

func (p Progress) ElapsedSeconds() float64 {
	return p.Elapsed.Seconds()
}

func (p Progress) EstimatedTotalSeconds() float64 {
	return p.EstimatedTotal.Seconds()
}

// Portion of files finished, between 0 and 1.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}

	return float64(p.Finished) / float64(p.Total)
}

func (p Progress) Done() bool {
	return p.Finished >= p.Total
}
