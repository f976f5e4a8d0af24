// Package pattern tests a capture against known waveform shapes and
// reports a confidence in [0, 1] with the fitted parameters.
package pattern

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/spectrum"
	timestats "github.com/cwbudde/algo-stream/stats/time"
)

// MinSamples is the shortest capture Detect accepts.
const MinSamples = 10

// Confidence a fit must reach to be reported as detected.
const (
	SineThreshold   = 0.9
	SquareThreshold = 0.8
)

// Sine frequency search. The trial frequency comes from midline crossings
// with a hysteresis band of sineHysteresis standard deviations, so noise
// riding on a slow edge counts once. A coarse Goertzel scan on a grid of a
// quarter bin then covers the trial's uncertainty, and a fine scan of
// refineSteps points settles within the winning cell.
const (
	sineHysteresis  = 0.5
	coarseHalfWidth = 0.05
	maxCoarseSteps  = 4096
	refineSteps     = 200
)

// Result is the outcome of one detection.
type Result struct {
	Detected   bool    `json:"detected"`
	Kind       Kind    `json:"kind"`
	Frequency  float64 `json:"frequency"`
	Amplitude  float64 `json:"amplitude"`
	Confidence float64 `json:"confidence"`
	// Phase of the fitted sine in radians, as in A*sin(2*pi*f*t + Phase).
	Phase float64 `json:"phase"`
	// DutyCycle of the square wave, the fraction of each period spent high.
	DutyCycle float64 `json:"duty_cycle"`
}

// Option configures a [Detector].
type Option func(*core.ProcessorConfig)

// WithSampleRate sets the rate used to express frequencies in Hz. The
// default of 1 reports cycles per sample.
func WithSampleRate(hz float64) Option {
	return func(cfg *core.ProcessorConfig) {
		core.WithSampleRate(hz)(cfg)
	}
}

// Detector classifies uniformly sampled captures.
type Detector struct {
	sampleRate float64
}

// New returns a Detector.
func New(opts ...Option) *Detector {
	cfg := core.ProcessorConfig{SampleRate: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Detector{sampleRate: cfg.SampleRate}
}

// Detect tests values against kind using cycles-per-sample frequencies.
func Detect(values []float64, kind Kind) (Result, error) {
	return New().Detect(values, kind)
}

// Detect tests values against kind. Non-finite samples are dropped.
func (d *Detector) Detect(values []float64, kind Kind) (Result, error) {
	if !kind.Valid() {
		return Result{}, fmt.Errorf("detect %v: %w", kind, core.ErrUnsupportedPattern)
	}
	values = core.Finite(values)
	if len(values) < MinSamples {
		return Result{}, fmt.Errorf("pattern needs at least %d samples, have %d: %w", MinSamples, len(values), core.ErrInsufficientData)
	}
	st := timestats.Calculate(values)
	if !(st.Std > 1e-12*math.Max(1, math.Abs(st.Mean))) {
		return Result{}, fmt.Errorf("pattern on a flat signal: %w", core.ErrDegenerateSignal)
	}

	switch kind {
	case Square:
		return d.detectSquare(values, st), nil
	default:
		return d.detectSine(values, st), nil
	}
}

func (d *Detector) detectSine(values []float64, st timestats.Stats) Result {
	res := Result{Kind: Sine, Amplitude: st.Std * math.Sqrt2}

	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = v - st.Mean
	}
	cross := schmittCrossings(dev, sineHysteresis*st.Std)
	if len(cross) < 2 {
		return res
	}
	span := cross[len(cross)-1] - cross[0]
	if span <= 0 {
		return res
	}

	// Frequencies below are in cycles per sample.
	trial := float64(len(cross)-1) / (2 * span)
	freq, ok := refineSine(dev, trial)
	if !ok {
		return res
	}

	phase, residual, ok := fitSine(dev, freq)
	if !ok {
		return res
	}
	total := st.Variance * float64(len(values))

	res.Frequency = freq * d.sampleRate
	res.Phase = phase
	res.Confidence = core.Clamp(1-residual/total, 0, 1)
	res.Detected = res.Confidence >= SineThreshold
	return res
}

// refineSine searches around trial for the frequency with the most energy
// in dev.
func refineSine(dev []float64, trial float64) (float64, bool) {
	cell := 1 / float64(len(dev))
	half := math.Max(4*cell, coarseHalfWidth*trial)
	steps := min(int(math.Ceil(8*half/cell)), maxCoarseSteps)

	coarse, err := spectrum.RefineTone(dev, 1, trial-half, trial+half, steps)
	if err != nil {
		return 0, false
	}
	step := 2 * half / float64(steps)
	freq, err := spectrum.RefineTone(dev, 1, coarse-step, coarse+step, refineSteps)
	if err != nil || freq <= 0 {
		return 0, false
	}
	return freq, true
}

// fitSine solves dev ≈ a*sin(wt) + b*cos(wt) + c in the least-squares sense
// and returns the phase of the fitted sine and the residual sum of squares.
func fitSine(dev []float64, freq float64) (phase, residual float64, ok bool) {
	n := len(dev)
	w := 2 * math.Pi * freq
	design := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		s, c := math.Sincos(w * float64(i))
		design.Set(i, 0, s)
		design.Set(i, 1, c)
		design.Set(i, 2, 1)
	}
	obs := mat.NewVecDense(n, dev)

	var qr mat.QR
	qr.Factorize(design)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, obs); err != nil {
		return 0, 0, false
	}

	var fit mat.VecDense
	fit.MulVec(design, &coef)
	fit.SubVec(obs, &fit)
	residual = mat.Dot(&fit, &fit)

	return math.Atan2(coef.AtVec(1), coef.AtVec(0)), residual, true
}

func (d *Detector) detectSquare(values []float64, st timestats.Stats) Result {
	res := Result{Kind: Square}

	mid := (st.Max + st.Min) / 2
	dev := make([]float64, len(values))
	for i, v := range values {
		dev[i] = v - mid
	}
	cross := crossings(dev, 0)

	var (
		highSum, lowSum float64
		highN, lowN     int
		sharp           int
	)
	band := 0.1 * st.Range
	for _, v := range values {
		switch {
		case v > mid:
			highSum += v
			highN++
		case v < mid:
			lowSum += v
			lowN++
		}
		if math.Abs(v-st.Max) <= band || math.Abs(v-st.Min) <= band {
			sharp++
		}
	}
	if highN > 0 && lowN > 0 {
		res.Amplitude = (highSum/float64(highN) - lowSum/float64(lowN)) / 2
	}

	if len(cross) < 3 {
		return res
	}

	periods := make([]float64, 0, len(cross)-2)
	var high, total float64
	rising := firstSign(dev) < 0
	for k := 0; k+2 < len(cross); k++ {
		p := cross[k+2] - cross[k]
		periods = append(periods, p)
		startsHigh := rising == (k%2 == 0)
		if startsHigh {
			high += cross[k+1] - cross[k]
		} else {
			high += cross[k+2] - cross[k+1]
		}
		total += p
	}

	meanPeriod := total / float64(len(periods))
	var ss float64
	for _, p := range periods {
		ss += (p - meanPeriod) * (p - meanPeriod)
	}
	cv := math.Sqrt(ss/float64(len(periods))) / meanPeriod

	duty := high / total
	regularity := core.Clamp(1-cv, 0, 1)
	symmetry := core.Clamp(1-2*math.Abs(duty-0.5), 0, 1)
	sharpness := float64(sharp) / float64(len(values))

	res.Frequency = d.sampleRate / meanPeriod
	res.DutyCycle = duty
	res.Confidence = regularity * symmetry * sharpness
	res.Detected = res.Confidence >= SquareThreshold
	return res
}

// crossings returns the fractional sample positions where dev changes sign
// around level. Samples exactly at level carry the previous sign.
func crossings(dev []float64, level float64) []float64 {
	var out []float64
	last := -1
	for i, v := range dev {
		if v == level {
			continue
		}
		if last >= 0 && (v > level) != (dev[last] > level) {
			a := dev[last]
			out = append(out, float64(last)+(level-a)/(v-a)*float64(i-last))
		}
		last = i
	}
	return out
}

// schmittCrossings returns the midline crossings of dev that complete a
// swing beyond ±band. Each is placed at the last sign change before the
// swing completed.
func schmittCrossings(dev []float64, band float64) []float64 {
	var out []float64
	state, zero := 0, 0.0
	for i, v := range dev {
		if i > 0 && (v > 0) != (dev[i-1] > 0) {
			a := dev[i-1]
			zero = float64(i-1) + a/(a-v)
		}
		switch {
		case v > band && state <= 0:
			if state < 0 {
				out = append(out, zero)
			}
			state = 1
		case v < -band && state >= 0:
			if state > 0 {
				out = append(out, zero)
			}
			state = -1
		}
	}
	return out
}

// firstSign returns the sign of the first non-zero element.
func firstSign(dev []float64) int {
	for _, v := range dev {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
	}
	return 0
}
