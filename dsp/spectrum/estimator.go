package spectrum

import (
	"fmt"
	"math"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Frame is one single-sided spectrum. Freqs and Values hold fftSize/2 bins
// starting at DC.
type Frame struct {
	Freqs    []float64
	Values   []float64
	BinWidth float64
	Scale    Scale
	Window   window.Type
}

// PeakFrequency returns the frequency of the largest bin above DC. It
// reports false when the frame has no such bin.
func (f Frame) PeakFrequency() (float64, bool) {
	if len(f.Values) < 2 || len(f.Freqs) != len(f.Values) {
		return 0, false
	}
	best := 1
	for k := 2; k < len(f.Values); k++ {
		if f.Values[k] > f.Values[best] {
			best = k
		}
	}
	return f.Freqs[best], true
}

// Option configures an [Estimator].
type Option func(*estimatorConfig)

type estimatorConfig struct {
	window  window.Type
	overlap float64
}

func defaultEstimatorConfig() estimatorConfig {
	return estimatorConfig{
		window:  window.TypeHann,
		overlap: 0.5,
	}
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(cfg *estimatorConfig) {
		cfg.window = t
	}
}

// WithOverlap sets the fraction of each frame shared with the previous one,
// in [0, 1). The default is 0.5.
func WithOverlap(f float64) Option {
	return func(cfg *estimatorConfig) {
		cfg.overlap = f
	}
}

// Estimator computes spectra over the most recent fftSize samples of a
// stream. It is safe for one producer and any number of readers.
type Estimator struct {
	// mu guards the ring; fftMu guards the transform scratch. Compute
	// holds mu only while copying the ring out.
	mu    sync.Mutex
	fftMu sync.Mutex

	size    int
	hop     int
	winType window.Type
	coeffs  []float64
	gain    float64
	plan    *algofft.Plan[complex128]

	ring       []float64
	write      int
	filled     int
	sinceFrame int

	in  []complex128
	out []complex128
}

// NewEstimator returns an estimator for frames of fftSize samples.
// fftSize must be a positive power of two.
func NewEstimator(fftSize int, opts ...Option) (*Estimator, error) {
	if !core.IsPowerOfTwo(fftSize) || fftSize < 2 {
		return nil, fmt.Errorf("fft size %d: %w", fftSize, core.ErrInvalidFFTSize)
	}
	cfg := defaultEstimatorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.window.Valid() {
		return nil, fmt.Errorf("window %v: %w", cfg.window, core.ErrInvalidParameter)
	}
	if !(cfg.overlap >= 0 && cfg.overlap < 1) {
		return nil, fmt.Errorf("overlap must be in [0, 1): %v: %w", cfg.overlap, core.ErrInvalidParameter)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum init fft plan: %w", err)
	}

	coeffs := window.Generate(cfg.window, fftSize, window.WithPeriodic())
	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, err
	}

	hop := int(math.Round(float64(fftSize) * (1 - cfg.overlap)))
	if hop < 1 {
		hop = 1
	}

	return &Estimator{
		size:    fftSize,
		hop:     hop,
		winType: cfg.window,
		coeffs:  coeffs,
		gain:    gain,
		plan:    plan,
		ring:    make([]float64, fftSize),
		in:      make([]complex128, fftSize),
		out:     make([]complex128, fftSize),
	}, nil
}

// Size returns the FFT size.
func (e *Estimator) Size() int { return e.size }

// Hop returns the number of new samples that make the next frame due.
func (e *Estimator) Hop() int { return e.hop }

// Window returns the configured window type.
func (e *Estimator) Window() window.Type { return e.winType }

// AddSamples appends values to the ring, overwriting the oldest samples.
func (e *Estimator) AddSamples(values []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, v := range values {
		e.ring[e.write] = v
		e.write++
		if e.write == e.size {
			e.write = 0
		}
		if e.filled < e.size {
			e.filled++
		}
		e.sinceFrame++
	}
}

// Buffered returns how many samples the ring holds, at most fftSize.
func (e *Estimator) Buffered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filled
}

// Ready reports whether the ring is full and at least one hop of samples
// arrived since the last Compute.
func (e *Estimator) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filled == e.size && e.sinceFrame >= e.hop
}

// Compute transforms the buffered window of samples.
func (e *Estimator) Compute(sampleRate float64, scale Scale) (Frame, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return Frame{}, fmt.Errorf("sample rate %v: %w", sampleRate, core.ErrInvalidParameter)
	}
	if scale != ScaleMagnitude && scale != ScalePower {
		return Frame{}, fmt.Errorf("scale %v: %w", scale, core.ErrInvalidParameter)
	}

	frame, err := e.snapshot()
	if err != nil {
		return Frame{}, err
	}

	e.fftMu.Lock()
	defer e.fftMu.Unlock()

	for i, v := range frame {
		e.in[i] = complex(v*e.coeffs[i], 0)
	}
	if err := e.plan.Forward(e.out, e.in); err != nil {
		return Frame{}, fmt.Errorf("spectrum forward fft: %w", err)
	}

	half := e.size / 2
	values := Magnitude(e.out[:half])
	norm := 1 / (float64(e.size) * e.gain)
	vecmath.ScaleBlockInPlace(values, 2*norm)
	values[0] *= 0.5
	if scale == ScalePower {
		vecmath.MulBlockInPlace(values, values)
	}

	return Frame{
		Freqs:    binFrequencies(half, sampleRate/float64(e.size)),
		Values:   values,
		BinWidth: sampleRate / float64(e.size),
		Scale:    scale,
		Window:   e.winType,
	}, nil
}

// snapshot copies the ring oldest first and marks the frame as taken.
func (e *Estimator) snapshot() ([]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.filled < e.size {
		return nil, fmt.Errorf("spectrum needs %d samples, have %d: %w", e.size, e.filled, core.ErrInsufficientData)
	}
	frame := make([]float64, e.size)
	n := copy(frame, e.ring[e.write:])
	copy(frame[n:], e.ring[:e.write])
	e.sinceFrame = 0
	return frame, nil
}

// Reset empties the ring.
func (e *Estimator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	clear(e.ring)
	e.write = 0
	e.filled = 0
	e.sinceFrame = 0
}

func binFrequencies(n int, df float64) []float64 {
	out := make([]float64, n)
	for k := range out {
		out[k] = float64(k) * df
	}
	return out
}
