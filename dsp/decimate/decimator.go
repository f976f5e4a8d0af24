package decimate

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// boundaryEps absorbs rounding when a timestamp sits exactly on a bucket
// boundary, e.g. 0.7*10 evaluating to 6.999999999999999.
const boundaryEps = 1e-9

// bucket tracks the extreme samples of one output interval. Ties keep the
// first sample to arrive.
type bucket struct {
	index    int64
	count    int
	min, max core.Sample
	minSeq   int
	maxSeq   int
}

func (b *bucket) add(s core.Sample) {
	if !core.IsFinite(s.Value) {
		return
	}
	if b.count == 0 {
		b.min, b.max = s, s
		b.minSeq, b.maxSeq = 0, 0
		b.count = 1
		return
	}
	if s.Value < b.min.Value {
		b.min, b.minSeq = s, b.count
	}
	if s.Value > b.max.Value {
		b.max, b.maxSeq = s, b.count
	}
	b.count++
}

// emit appends the bucket's extrema in arrival order. A bucket whose
// minimum and maximum are equal emits a single point.
func (b *bucket) emit(times, values []float64) ([]float64, []float64) {
	if b.count == 0 {
		return times, values
	}
	if b.min.Value == b.max.Value || b.minSeq == b.maxSeq {
		first := b.min
		if b.maxSeq < b.minSeq {
			first = b.max
		}
		return append(times, first.Time), append(values, first.Value)
	}
	first, second := b.min, b.max
	if b.maxSeq < b.minSeq {
		first, second = b.max, b.min
	}
	times = append(times, first.Time, second.Time)
	values = append(values, first.Value, second.Value)
	return times, values
}

// Decimator is a min/max bucketing decimator. Partial buckets are held
// across calls and only emitted once a later bucket starts (or on Flush).
//
// Decimator expects a single producer; its methods are serialized by an
// internal lock.
type Decimator struct {
	mu         sync.Mutex
	targetRate float64
	started    bool
	origin     float64
	last       float64
	open       bucket
}

// New returns a decimator that emits at most two points per 1/targetRate
// seconds of input.
func New(targetRate float64) (*Decimator, error) {
	if !(targetRate > 0) || math.IsInf(targetRate, 0) {
		return nil, fmt.Errorf("decimator target rate must be > 0: %v: %w", targetRate, core.ErrInvalidParameter)
	}
	return &Decimator{targetRate: targetRate}, nil
}

// TargetRate returns the configured output bucket rate in buckets/second.
func (d *Decimator) TargetRate() float64 {
	return d.targetRate
}

// AddPoints consumes a chunk of the input stream and returns the points of
// every bucket that closed during the chunk.
//
// Timestamps must be non-decreasing within the chunk and relative to the
// previous chunk; otherwise ErrInvalidInputOrder is returned and the
// decimator state is left unchanged. Non-finite values never become
// bucket extrema.
func (d *Decimator) AddPoints(times, values []float64) (outTimes, outValues []float64, err error) {
	if err := core.CheckPairs(times, values); err != nil {
		return nil, nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	prev := math.Inf(-1)
	if d.started {
		prev = d.last
	}
	if i := core.CheckOrder(prev, times); i >= 0 {
		return nil, nil, fmt.Errorf("decimator: timestamp %v at index %d after %v: %w",
			times[i], i, prevAt(prev, times, i), core.ErrInvalidInputOrder)
	}
	if len(times) == 0 {
		return nil, nil, nil
	}

	if !d.started {
		d.started = true
		d.origin = times[0]
		d.open = bucket{index: d.bucketIndex(times[0])}
	}

	for i, t := range times {
		idx := d.bucketIndex(t)
		if idx != d.open.index {
			outTimes, outValues = d.open.emit(outTimes, outValues)
			d.open = bucket{index: idx}
		}
		d.open.add(core.Sample{Time: t, Value: values[i]})
	}
	d.last = times[len(times)-1]

	return outTimes, outValues, nil
}

// Flush emits the open bucket, if any, and starts a fresh one. Subsequent
// points keep the original time origin.
func (d *Decimator) Flush() (outTimes, outValues []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	outTimes, outValues = d.open.emit(nil, nil)
	d.open = bucket{index: d.open.index}
	return outTimes, outValues
}

// Reset discards the open bucket and the time origin.
func (d *Decimator) Reset() {
	d.mu.Lock()
	d.started = false
	d.origin, d.last = 0, 0
	d.open = bucket{}
	d.mu.Unlock()
}

func (d *Decimator) bucketIndex(t float64) int64 {
	return int64(math.Floor((t-d.origin)*d.targetRate + boundaryEps))
}

func prevAt(prev float64, times []float64, i int) float64 {
	if i == 0 {
		return prev
	}
	return times[i-1]
}
