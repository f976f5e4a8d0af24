package buffer

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/gammazero/deque"
)

// Rolling is a fixed-capacity FIFO of timestamped samples.
//
// Rolling is safe for one producer and any number of concurrent readers.
// Every mutation commits under a single lock, so a reader observes the
// buffer either before or after a Push, never in between. Non-finite
// values are stored as-is.
type Rolling struct {
	mu       sync.Mutex
	capacity int
	samples  deque.Deque[core.Sample]
}

// NewRolling returns an empty buffer that holds at most capacity samples.
func NewRolling(capacity int) (*Rolling, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("rolling buffer capacity must be > 0: %d: %w", capacity, core.ErrInvalidParameter)
	}
	r := &Rolling{capacity: capacity}
	r.samples.SetBaseCap(capacity)
	return r, nil
}

// Push appends s, evicting the oldest sample when the buffer is full.
func (r *Rolling) Push(s core.Sample) {
	r.mu.Lock()
	r.push(s)
	r.mu.Unlock()
}

// PushBatch appends paired samples under one lock. Nothing is pushed when
// the slices differ in length.
func (r *Rolling) PushBatch(times, values []float64) error {
	if err := core.CheckPairs(times, values); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Only the tail survives when the batch exceeds capacity.
	start := 0
	if len(times) > r.capacity {
		start = len(times) - r.capacity
	}
	for i := start; i < len(times); i++ {
		r.push(core.Sample{Time: times[i], Value: values[i]})
	}
	return nil
}

func (r *Rolling) push(s core.Sample) {
	if r.samples.Len() == r.capacity {
		r.samples.PopFront()
	}
	r.samples.PushBack(s)
}

// Snapshot returns copies of the buffered timestamps and values in arrival
// order. The returned slices never alias internal storage.
func (r *Rolling) Snapshot() (times, values []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.samples.Len()
	times = make([]float64, n)
	values = make([]float64, n)
	for i := 0; i < n; i++ {
		s := r.samples.At(i)
		times[i] = s.Time
		values[i] = s.Value
	}
	return times, values
}

// Samples returns a copy of the buffered samples in arrival order.
func (r *Rolling) Samples() []core.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples.AppendToSlice(make([]core.Sample, 0, r.samples.Len()))
}

// Latest returns the most recently pushed sample.
func (r *Rolling) Latest() (core.Sample, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.samples.Len() == 0 {
		return core.Sample{}, false
	}
	return r.samples.Back(), true
}

// Len returns the number of buffered samples.
func (r *Rolling) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples.Len()
}

// Cap returns the buffer capacity.
func (r *Rolling) Cap() int {
	return r.capacity
}

// Clear drops all buffered samples.
func (r *Rolling) Clear() {
	r.mu.Lock()
	r.samples.Clear()
	r.mu.Unlock()
}
