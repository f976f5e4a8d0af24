package trend

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// MovingAverage returns the means of every full window of n consecutive
// values, len(values)-n+1 results in all.
func MovingAverage(values []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("moving average window %d: %w", n, core.ErrInvalidParameter)
	}
	if len(values) < n {
		return nil, fmt.Errorf("moving average needs %d samples, have %d: %w", n, len(values), core.ErrInsufficientData)
	}

	out := make([]float64, len(values)-n+1)
	var sum float64
	for i := 0; i < n; i++ {
		sum += values[i]
	}
	inv := 1 / float64(n)
	out[0] = sum * inv
	for i := n; i < len(values); i++ {
		sum += values[i] - values[i-n]
		out[i-n+1] = sum * inv
	}
	return out, nil
}

// Derivative returns dvalue/dtime at every sample: second-order central
// differences inside, one-sided differences at both ends. Times must be
// strictly increasing.
func Derivative(times, values []float64) ([]float64, error) {
	if err := checkAxis(times, values); err != nil {
		return nil, err
	}

	n := len(values)
	out := make([]float64, n)
	out[0] = (values[1] - values[0]) / (times[1] - times[0])
	out[n-1] = (values[n-1] - values[n-2]) / (times[n-1] - times[n-2])
	for i := 1; i < n-1; i++ {
		hd := times[i] - times[i-1]
		hs := times[i+1] - times[i]
		out[i] = (hd*hd*values[i+1] + (hs*hs-hd*hd)*values[i] - hs*hs*values[i-1]) / (hd * hs * (hd + hs))
	}
	return out, nil
}

// Integrate returns the trapezoidal integral of values over times.
func Integrate(times, values []float64) (float64, error) {
	if err := core.CheckPairs(times, values); err != nil {
		return 0, err
	}
	if len(values) < 2 {
		return 0, fmt.Errorf("integral needs 2 samples, have %d: %w", len(values), core.ErrInsufficientData)
	}
	var sum float64
	for i := 1; i < len(values); i++ {
		sum += (times[i] - times[i-1]) * (values[i] + values[i-1]) / 2
	}
	return sum, nil
}

// Resample linearly interpolates the capture onto a uniform grid at rate
// samples per second spanning [times[0], times[last]].
func Resample(times, values []float64, rate float64) (outT, outV []float64, err error) {
	if !(rate > 0) || !core.IsFinite(rate) {
		return nil, nil, fmt.Errorf("resample rate %v: %w", rate, core.ErrInvalidParameter)
	}
	if err := checkAxis(times, values); err != nil {
		return nil, nil, err
	}

	first, last := times[0], times[len(times)-1]
	n := int((last-first)*rate+1e-9) + 1
	outT = make([]float64, n)
	outV = make([]float64, n)
	for i := range outT {
		q := first + float64(i)/rate
		outT[i] = q
		if q >= last {
			outV[i] = values[len(values)-1]
			continue
		}
		j := sort.SearchFloat64s(times, q)
		if j == 0 {
			outV[i] = values[0]
			continue
		}
		t0, t1 := times[j-1], times[j]
		f := (q - t0) / (t1 - t0)
		outV[i] = values[j-1] + f*(values[j]-values[j-1])
	}
	return outT, outV, nil
}

func checkAxis(times, values []float64) error {
	if err := core.CheckPairs(times, values); err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("need 2 samples, have %d: %w", len(times), core.ErrInsufficientData)
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return fmt.Errorf("time %d not after time %d: %w", i, i-1, core.ErrInvalidInputOrder)
		}
	}
	return nil
}
