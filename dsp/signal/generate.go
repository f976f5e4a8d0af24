// Package signal generates deterministic test captures: periodic shapes,
// ramps, seeded noise and the uniform timestamps that go with them.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg   core.ProcessorConfig
	seed  int64
	phase float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithPhase sets the starting phase of periodic shapes in radians.
func WithPhase(phase float64) Option {
	return func(g *Generator) {
		g.phase = phase
	}
}

// NewGenerator creates a generator at the configured sample rate.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Times returns n timestamps starting at start, spaced by 1/sampleRate.
func (g *Generator) Times(start float64, n int) ([]float64, error) {
	if err := checkCount("times", n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)/g.cfg.SampleRate
	}
	return out, nil
}

// Sine generates amplitude*sin(2*pi*freq*t + phase).
func (g *Generator) Sine(freqHz, amplitude float64, n int) ([]float64, error) {
	if err := checkCount("sine", n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i)+g.phase)
	}
	return out, nil
}

// Square generates a ±amplitude square wave that is high for the first
// duty fraction of each period.
func (g *Generator) Square(freqHz, amplitude, duty float64, n int) ([]float64, error) {
	if err := checkCount("square", n); err != nil {
		return nil, err
	}
	if !(duty > 0 && duty < 1) {
		return nil, fmt.Errorf("square duty must be in (0, 1): %v: %w", duty, core.ErrInvalidParameter)
	}
	if !(freqHz > 0) {
		return nil, fmt.Errorf("square frequency must be > 0: %v: %w", freqHz, core.ErrInvalidParameter)
	}
	out := make([]float64, n)
	cycles := freqHz / g.cfg.SampleRate
	offset := g.phase / (2 * math.Pi)
	for i := range out {
		pos := float64(i)*cycles + offset
		if pos-math.Floor(pos) < duty {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}
	return out, nil
}

// Ramp generates start + slope*t, with slope in units per second.
func (g *Generator) Ramp(start, slope float64, n int) ([]float64, error) {
	if err := checkCount("ramp", n); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = start + slope*float64(i)/g.cfg.SampleRate
	}
	return out, nil
}

// WhiteNoise generates seeded uniform noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, n int) ([]float64, error) {
	if err := checkCount("noise", n); err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %v: %w", amplitude, core.ErrInvalidParameter)
	}
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Add returns the element-wise sum of equally long signals.
func Add(signals ...[]float64) ([]float64, error) {
	if len(signals) == 0 {
		return nil, nil
	}
	out := append([]float64(nil), signals[0]...)
	for _, s := range signals[1:] {
		if len(s) != len(out) {
			return nil, fmt.Errorf("add signals of %d and %d samples: %w", len(out), len(s), core.ErrLengthMismatch)
		}
		for i, v := range s {
			out[i] += v
		}
	}
	return out, nil
}

func checkCount(what string, n int) error {
	if n <= 0 {
		return fmt.Errorf("%s samples must be > 0: %d: %w", what, n, core.ErrInvalidParameter)
	}
	return nil
}
