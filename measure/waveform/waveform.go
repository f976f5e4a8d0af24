package waveform

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-stream/dsp/core"
	timestats "github.com/cwbudde/algo-stream/stats/time"
	"github.com/cwbudde/algo-vecmath"
)

// PeakFloorSigma places the peak noise floor this many standard deviations
// above the mean.
const PeakFloorSigma = 0.5

// Edge thresholds as fractions of the min..max excursion.
const (
	EdgeLow  = 0.1
	EdgeHigh = 0.9
)

// Report holds the waveform measurements of one capture.
type Report struct {
	Count    int     `json:"count"`
	Duration float64 `json:"duration"`

	Mean       float64 `json:"mean"`
	Std        float64 `json:"std"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	PeakToPeak float64 `json:"peak_to_peak"`
	RMS        float64 `json:"rms"`

	Skewness core.Optional `json:"skewness"`
	// Kurtosis is excess kurtosis: 0 for a normal distribution.
	Kurtosis core.Optional `json:"kurtosis"`

	ACRMS       float64       `json:"ac_rms"`
	CrestFactor core.Optional `json:"crest_factor"`

	ZeroCrossings      int           `json:"zero_crossings"`
	EstimatedFrequency core.Optional `json:"estimated_frequency"`

	NumPeaks       int       `json:"num_peaks"`
	PeakAmplitudes []float64 `json:"peak_amplitudes"`
	PeakTimes      []float64 `json:"peak_times"`

	RiseTime core.Optional `json:"rise_time"`
	FallTime core.Optional `json:"fall_time"`
}

// Option configures an [Analyzer].
type Option func(*config)

type config struct {
	minPeakDistance int
}

// WithMinPeakDistance sets the minimum separation between reported peaks in
// samples. By default it is max(1, n/100) for a capture of n samples.
func WithMinPeakDistance(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.minPeakDistance = n
		}
	}
}

// Analyzer computes waveform reports. It holds no per-capture state and is
// safe for concurrent use.
type Analyzer struct {
	cfg config
}

// New returns an Analyzer.
func New(opts ...Option) *Analyzer {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Analyzer{cfg: cfg}
}

// Analyze measures a capture with default settings.
func Analyze(times, values []float64) (Report, error) {
	return New().Analyze(times, values)
}

// Analyze measures the capture described by times and values. Pairs with a
// non-finite time or value are ignored; at least two must remain.
func (a *Analyzer) Analyze(times, values []float64) (Report, error) {
	if err := core.CheckPairs(times, values); err != nil {
		return Report{}, err
	}
	times, values = finitePairs(times, values)
	n := len(values)
	if n < 2 {
		return Report{}, fmt.Errorf("waveform needs at least 2 samples, have %d: %w", n, core.ErrInsufficientData)
	}

	st := timestats.Calculate(values)
	rep := Report{
		Count:      n,
		Duration:   times[n-1] - times[0],
		Mean:       st.Mean,
		Std:        st.Std,
		Min:        st.Min,
		Max:        st.Max,
		PeakToPeak: st.Range,
		RMS:        st.RMS,
		ACRMS:      st.Std,
	}

	dev := make([]float64, n)
	for i, v := range values {
		dev[i] = v - st.Mean
	}

	if !degenerate(st.Std, st.Mean) {
		rep.Skewness = core.Some(st.Skewness)
		rep.Kurtosis = core.Some(st.Kurtosis)
		rep.CrestFactor = core.Some(vecmath.MaxAbs(dev) / st.Std)
	}

	rep.ZeroCrossings = zeroCrossings(dev)
	if rep.Duration > 0 {
		rep.EstimatedFrequency = core.Some(float64(rep.ZeroCrossings) / (2 * rep.Duration))
	}

	minDist := a.cfg.minPeakDistance
	if minDist == 0 {
		minDist = max(1, n/100)
	}
	peaks := findPeaks(values, st.Mean+PeakFloorSigma*st.Std, minDist)
	rep.NumPeaks = len(peaks)
	rep.PeakAmplitudes = make([]float64, len(peaks))
	rep.PeakTimes = make([]float64, len(peaks))
	for i, p := range peaks {
		rep.PeakAmplitudes[i] = values[p]
		rep.PeakTimes[i] = times[p]
	}

	if !degenerate(st.Range, st.Mean) {
		rep.RiseTime, rep.FallTime = edgeTimes(times, values, st.Min, st.Range)
	}
	return rep, nil
}

// CrestFactor returns max|v-mean| / rms(v-mean). A flat signal has no crest
// factor and yields ErrDegenerateSignal.
func CrestFactor(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("crest factor: %w", core.ErrInsufficientData)
	}
	st := timestats.Calculate(values)
	if degenerate(st.Std, st.Mean) {
		return 0, fmt.Errorf("crest factor of a flat signal: %w", core.ErrDegenerateSignal)
	}
	peak := math.Max(math.Abs(st.Max-st.Mean), math.Abs(st.Min-st.Mean))
	return peak / st.Std, nil
}

// degenerate reports whether spread is too small relative to level to
// divide by.
func degenerate(spread, level float64) bool {
	return !(spread > 1e-12*math.Max(1, math.Abs(level)))
}

func finitePairs(times, values []float64) ([]float64, []float64) {
	clean := true
	for i := range values {
		if !core.IsFinite(times[i]) || !core.IsFinite(values[i]) {
			clean = false
			break
		}
	}
	if clean {
		return times, values
	}
	t := make([]float64, 0, len(times))
	v := make([]float64, 0, len(values))
	for i := range values {
		if core.IsFinite(times[i]) && core.IsFinite(values[i]) {
			t = append(t, times[i])
			v = append(v, values[i])
		}
	}
	return t, v
}

// zeroCrossings counts sign changes. Exact zeros take the sign of the last
// non-zero sample.
func zeroCrossings(dev []float64) int {
	count := 0
	sign := 0
	for _, d := range dev {
		s := 0
		switch {
		case d > 0:
			s = 1
		case d < 0:
			s = -1
		}
		if s == 0 {
			continue
		}
		if sign != 0 && s != sign {
			count++
		}
		sign = s
	}
	return count
}

// findPeaks returns indices of local maxima above floor, at least minDist
// samples apart, preferring higher peaks. Indices are in ascending order.
func findPeaks(values []float64, floor float64, minDist int) []int {
	var cand []int
	for i := 1; i < len(values)-1; i++ {
		v := values[i]
		if v > values[i-1] && v >= values[i+1] && v > floor {
			cand = append(cand, i)
		}
	}
	sort.SliceStable(cand, func(a, b int) bool {
		return values[cand[a]] > values[cand[b]]
	})

	suppressed := make([]bool, len(values))
	var peaks []int
	for _, i := range cand {
		if suppressed[i] {
			continue
		}
		peaks = append(peaks, i)
		for j := max(0, i-minDist+1); j < min(len(values), i+minDist); j++ {
			suppressed[j] = true
		}
	}
	sort.Ints(peaks)
	return peaks
}

// edgeTimes averages the 10%-90% transition times of all complete rising
// and falling edges.
func edgeTimes(times, values []float64, low, excursion float64) (rise, fall core.Optional) {
	l10 := low + EdgeLow*excursion
	l90 := low + EdgeHigh*excursion

	var (
		riseSum, fallSum     float64
		riseCount, fallCount int
		riseStart, fallStart float64
		rising, falling      bool
	)
	for i := 1; i < len(values); i++ {
		a, b := values[i-1], values[i]
		ta, tb := times[i-1], times[i]

		if a < l10 && b >= l10 {
			riseStart = crossing(ta, tb, a, b, l10)
			rising = true
		}
		if rising && a < l90 && b >= l90 {
			riseSum += crossing(ta, tb, a, b, l90) - riseStart
			riseCount++
			rising = false
		}
		if rising && b < l10 {
			rising = false
		}

		if a > l90 && b <= l90 {
			fallStart = crossing(ta, tb, a, b, l90)
			falling = true
		}
		if falling && a > l10 && b <= l10 {
			fallSum += crossing(ta, tb, a, b, l10) - fallStart
			fallCount++
			falling = false
		}
		if falling && b > l90 {
			falling = false
		}
	}

	if riseCount > 0 {
		rise = core.Some(riseSum / float64(riseCount))
	}
	if fallCount > 0 {
		fall = core.Some(fallSum / float64(fallCount))
	}
	return rise, fall
}

func crossing(ta, tb, a, b, level float64) float64 {
	return ta + (level-a)/(b-a)*(tb-ta)
}
