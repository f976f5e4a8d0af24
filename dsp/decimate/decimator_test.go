package decimate

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidRate(t *testing.T) {
	for _, rate := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := New(rate)
		require.ErrorIs(t, err, core.ErrInvalidParameter, "rate %v", rate)
	}
}

func TestRampOneSecondEmitsTenBuckets(t *testing.T) {
	d, err := New(10)
	require.NoError(t, err)

	// 1001 samples span exactly one second; the sample at t=1 opens the
	// eleventh bucket and closes the tenth.
	times := testutil.UniformTimes(1000, 1001)
	values := testutil.Ramp(0, 1, 1001)

	outT, outV, err := d.AddPoints(times, values)
	require.NoError(t, err)
	require.Len(t, outV, 20)
	require.Len(t, outT, 20)

	for k := 0; k < 10; k++ {
		lo, hi := float64(100*k), float64(100*k+99)
		assert.Equal(t, lo, outV[2*k], "bucket %d min", k)
		assert.Equal(t, hi, outV[2*k+1], "bucket %d max", k)
		assert.Equal(t, times[100*k], outT[2*k])
		assert.Equal(t, times[100*k+99], outT[2*k+1])
	}
}

func TestPartialBucketsPersistAcrossChunks(t *testing.T) {
	d, err := New(10)
	require.NoError(t, err)

	times := testutil.UniformTimes(1000, 1000)
	values := testutil.Ramp(0, 1, 1000)

	var gotV []float64
	for start := 0; start < len(times); start += 37 {
		end := min(start+37, len(times))
		_, v, err := d.AddPoints(times[start:end], values[start:end])
		require.NoError(t, err)
		gotV = append(gotV, v...)
	}
	require.Len(t, gotV, 18, "the last bucket stays open until Flush")

	_, tail := d.Flush()
	gotV = append(gotV, tail...)
	require.Len(t, gotV, 20)
	assert.Equal(t, []float64{900, 999}, tail)

	ft, fv := d.Flush()
	assert.Empty(t, ft)
	assert.Empty(t, fv)
}

func TestBucketExtremaMatchTrueExtrema(t *testing.T) {
	const rate = 1000.0
	sig := testutil.DeterministicNoise(11, 1, 5000)
	sig[1234] = 25 // spike that uniform sub-sampling would likely miss
	times := testutil.UniformTimes(rate, len(sig))

	d, err := New(20)
	require.NoError(t, err)
	outT, outV, err := d.AddPoints(times, sig)
	require.NoError(t, err)
	ft, fv := d.Flush()
	outT = append(outT, ft...)
	outV = append(outV, fv...)

	assert.Contains(t, outV, 25.0)

	// Rebuild per-bucket extrema directly and compare.
	const width = int(rate / 20)
	var want []float64
	for b := 0; b < len(sig)/width; b++ {
		seg := sig[b*width : (b+1)*width]
		minI, maxI := 0, 0
		for i, v := range seg {
			if v < seg[minI] {
				minI = i
			}
			if v > seg[maxI] {
				maxI = i
			}
		}
		if minI < maxI {
			want = append(want, seg[minI], seg[maxI])
		} else {
			want = append(want, seg[maxI], seg[minI])
		}
	}
	assert.Equal(t, want, outV)

	for i := 1; i < len(outT); i++ {
		assert.GreaterOrEqual(t, outT[i], outT[i-1], "output time order at %d", i)
	}
}

func TestFallingValuesEmitMaxFirst(t *testing.T) {
	d, err := New(1)
	require.NoError(t, err)
	_, _, err = d.AddPoints([]float64{0, 0.5}, []float64{5, -5})
	require.NoError(t, err)
	outT, outV := d.Flush()
	assert.Equal(t, []float64{0, 0.5}, outT)
	assert.Equal(t, []float64{5, -5}, outV)
}

func TestFlatBucketEmitsOnce(t *testing.T) {
	d, err := New(1)
	require.NoError(t, err)
	_, _, err = d.AddPoints([]float64{0, 0.2, 0.4}, []float64{3, 3, 3})
	require.NoError(t, err)
	outT, outV := d.Flush()
	assert.Equal(t, []float64{0}, outT)
	assert.Equal(t, []float64{3}, outV)
}

func TestSlowInputPassesThrough(t *testing.T) {
	// 5 samples/s into a 100 buckets/s decimator: one sample per bucket.
	d, err := New(100)
	require.NoError(t, err)
	times := testutil.UniformTimes(5, 50)
	values := testutil.DeterministicNoise(2, 1, 50)

	outT, outV, err := d.AddPoints(times, values)
	require.NoError(t, err)
	ft, fv := d.Flush()
	outT = append(outT, ft...)
	outV = append(outV, fv...)
	assert.Equal(t, times, outT)
	assert.Equal(t, values, outV)
}

func TestOutOfOrderChunkIsRejectedAtomically(t *testing.T) {
	d, err := New(10)
	require.NoError(t, err)

	_, _, err = d.AddPoints([]float64{0, 0.05}, []float64{1, 2})
	require.NoError(t, err)

	_, _, err = d.AddPoints([]float64{0.2, 0.1}, []float64{100, 200})
	require.ErrorIs(t, err, core.ErrInvalidInputOrder)

	_, _, err = d.AddPoints([]float64{0.01}, []float64{300})
	require.ErrorIs(t, err, core.ErrInvalidInputOrder, "earlier than the last accepted sample")

	// The rejected chunks left no trace in the open bucket.
	_, outV := d.Flush()
	assert.Equal(t, []float64{1, 2}, outV)
}

func TestLengthMismatch(t *testing.T) {
	d, err := New(10)
	require.NoError(t, err)
	_, _, err = d.AddPoints([]float64{0, 1}, []float64{0})
	require.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestResetDropsOrigin(t *testing.T) {
	d, err := New(10)
	require.NoError(t, err)
	_, _, err = d.AddPoints([]float64{5, 5.01}, []float64{1, 2})
	require.NoError(t, err)
	d.Reset()

	// Earlier timestamps are accepted again after Reset.
	_, _, err = d.AddPoints([]float64{0}, []float64{7})
	require.NoError(t, err)
	_, outV := d.Flush()
	assert.Equal(t, []float64{7}, outV)
}

func TestNonFiniteValuesAreNotExtrema(t *testing.T) {
	d, err := New(1)
	require.NoError(t, err)

	_, _, err = d.AddPoints([]float64{0, 0.1, 0.2, 0.3}, []float64{math.NaN(), 2, math.Inf(1), -1})
	require.NoError(t, err)
	times, values := d.Flush()
	assert.Equal(t, []float64{0.1, 0.3}, times)
	assert.Equal(t, []float64{2, -1}, values)
}
