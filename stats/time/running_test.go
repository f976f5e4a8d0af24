package time

import (
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-stream/internal/testutil"
)

func TestRunningEmptyIsInvalid(t *testing.T) {
	s := NewRunning().Statistics()
	if s.Valid || s.Count != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Std) || !math.IsNaN(s.Min) || !math.IsNaN(s.Max) {
		t.Fatalf("empty summary should carry NaN aggregates: %+v", s)
	}
}

func TestRunningMatchesBatch(t *testing.T) {
	sig := testutil.DeterministicNoise(3, 5, 10000)
	for i := range sig {
		sig[i] += 2
	}

	r := NewRunning()
	for _, x := range sig {
		r.Add(x)
	}
	got := r.Statistics()
	want := Calculate(sig)

	if got.Count != len(sig) || !got.Valid {
		t.Fatalf("Count = %d, Valid = %v", got.Count, got.Valid)
	}
	if math.Abs(got.Mean-want.Mean) > 1e-9 {
		t.Fatalf("Mean = %v, want %v", got.Mean, want.Mean)
	}
	if math.Abs(got.Std-want.Std) > 1e-9 {
		t.Fatalf("Std = %v, want %v", got.Std, want.Std)
	}
	if got.Min != want.Min || got.Max != want.Max {
		t.Fatalf("extrema = [%v, %v], want [%v, %v]", got.Min, got.Max, want.Min, want.Max)
	}
}

func TestRunningStableForLargeMean(t *testing.T) {
	// The naive E[x²]-E[x]² form loses every significant digit here.
	r := NewRunning()
	for i := 0; i < 1000; i++ {
		v := 1e9
		if i%2 == 0 {
			v += 1
		} else {
			v -= 1
		}
		r.Add(v)
	}
	s := r.Statistics()
	if math.Abs(s.Std-1) > 1e-6 {
		t.Fatalf("Std = %v, want 1", s.Std)
	}
	if math.Abs(s.Mean-1e9) > 1e-6 {
		t.Fatalf("Mean = %v, want 1e9", s.Mean)
	}
}

func TestRunningSkipsNonFinite(t *testing.T) {
	r := NewRunning()
	r.AddBatch([]float64{1, math.NaN(), 3, math.Inf(1), math.Inf(-1)})
	s := r.Statistics()
	if s.Count != 2 || s.Skipped != 3 {
		t.Fatalf("Count = %d, Skipped = %d, want 2 and 3", s.Count, s.Skipped)
	}
	if s.Mean != 2 || s.Min != 1 || s.Max != 3 || s.Std != 1 {
		t.Fatalf("aggregates corrupted by non-finite input: %+v", s)
	}
}

func TestRunningReset(t *testing.T) {
	r := NewRunning()
	r.AddBatch([]float64{1, 2, math.NaN()})
	r.Reset()
	s := r.Statistics()
	if s.Valid || s.Count != 0 || s.Skipped != 0 {
		t.Fatalf("after Reset = %+v", s)
	}
	r.Add(-5)
	if s = r.Statistics(); s.Min != -5 || s.Max != -5 || s.Mean != -5 || s.Std != 0 {
		t.Fatalf("after Reset and Add = %+v", s)
	}
}

func TestRunningConcurrentReadsAreConsistent(t *testing.T) {
	r := NewRunning()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 20000; i++ {
			r.Add(float64(i))
		}
	}()
	for i := 0; i < 500; i++ {
		s := r.Statistics()
		if !s.Valid {
			continue
		}
		// For the sequence 1..n, mean is (n+1)/2 and max is n.
		if s.Max != float64(s.Count) || math.Abs(s.Mean-(s.Max+1)/2) > 1e-6 {
			t.Fatalf("torn summary: %+v", s)
		}
	}
	wg.Wait()
}
