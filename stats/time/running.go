package time

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Summary is a point-in-time view of a Running accumulator.
//
// Std is the population standard deviation (divide by Count), matching the
// batch statistics elsewhere in this module. When Count is 0 the summary
// has Valid false and Mean, Std, Variance, Min and Max are NaN.
type Summary struct {
	Count    int
	Skipped  int // non-finite samples excluded from the aggregates
	Mean     float64
	Std      float64
	Variance float64
	Min      float64
	Max      float64
	Valid    bool
}

// Running accumulates count, mean, variance and extrema over an unbounded
// stream in O(1) memory. Values are folded in with Welford's update, so the
// variance never comes from E[x²]-E[x]², which loses precision for large
// means.
//
// NaN and ±Inf samples are not folded into the aggregates; they are counted
// in Summary.Skipped so the degradation stays visible.
//
// Running is safe for one producer and concurrent readers.
type Running struct {
	mu      sync.Mutex
	count   int
	skipped int
	mean    float64
	m2      float64
	min     float64
	max     float64
}

// NewRunning returns an empty accumulator.
func NewRunning() *Running {
	return &Running{}
}

// Add folds one sample into the aggregates.
func (r *Running) Add(x float64) {
	r.mu.Lock()
	r.add(x)
	r.mu.Unlock()
}

// AddBatch folds a block of samples in one critical section.
func (r *Running) AddBatch(xs []float64) {
	r.mu.Lock()
	for _, x := range xs {
		r.add(x)
	}
	r.mu.Unlock()
}

func (r *Running) add(x float64) {
	if !core.IsFinite(x) {
		r.skipped++
		return
	}
	r.count++
	if r.count == 1 {
		r.mean, r.m2 = x, 0
		r.min, r.max = x, x
		return
	}
	delta := x - r.mean
	r.mean += delta / float64(r.count)
	r.m2 += delta * (x - r.mean)
	if x < r.min {
		r.min = x
	}
	if x > r.max {
		r.max = x
	}
}

// Statistics returns the current aggregates in O(1).
func (r *Running) Statistics() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		nan := math.NaN()
		return Summary{Skipped: r.skipped, Mean: nan, Std: nan, Variance: nan, Min: nan, Max: nan}
	}
	variance := r.m2 / float64(r.count)
	return Summary{
		Count:    r.count,
		Skipped:  r.skipped,
		Mean:     r.mean,
		Std:      math.Sqrt(variance),
		Variance: variance,
		Min:      r.min,
		Max:      r.max,
		Valid:    true,
	}
}

// Reset clears all aggregates.
func (r *Running) Reset() {
	r.mu.Lock()
	r.count, r.skipped = 0, 0
	r.mean, r.m2, r.min, r.max = 0, 0, 0, 0
	r.mu.Unlock()
}
