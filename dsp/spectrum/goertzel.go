package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Goertzel evaluates a single DFT term over the samples fed to it since the
// last Reset. The frequency need not fall on an FFT bin.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
	n          int
}

// NewGoertzel returns a probe for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel sample rate %v: %w", sampleRate, core.ErrInvalidParameter)
	}
	g := &Goertzel{sampleRate: sampleRate}
	if err := g.SetFrequency(frequency); err != nil {
		return nil, err
	}
	return g, nil
}

// SetFrequency retunes the probe and clears its state.
func (g *Goertzel) SetFrequency(frequency float64) error {
	if !(frequency >= 0 && frequency <= g.sampleRate/2) {
		return fmt.Errorf("goertzel frequency %v outside [0, %v]: %w", frequency, g.sampleRate/2, core.ErrInvalidParameter)
	}
	g.frequency = frequency
	g.coeff = 2 * math.Cos(2*math.Pi*frequency/g.sampleRate)
	g.Reset()
	return nil
}

// Frequency returns the probed frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// Reset clears the accumulated state.
func (g *Goertzel) Reset() {
	g.s0, g.s1, g.n = 0, 0, 0
}

// ProcessBlock feeds samples to the probe.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1
	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}
	g.s0, g.s1 = s0, s1
	g.n += len(input)
}

// Power returns |X(f)|², matching a DFT of the same block.
func (g *Goertzel) Power() float64 {
	p := g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
	if p < 0 {
		return 0
	}
	return p
}

// Amplitude returns the amplitude of a sine at the probed frequency,
// 2|X(f)|/N, or 0 before any input.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}
	return 2 * math.Sqrt(g.Power()) / float64(g.n)
}

// RefineTone searches frequencies in [lo, hi] on a grid of steps+1 points
// and returns the one with the largest Goertzel power over values. The
// range is clipped to [0, sampleRate/2].
func RefineTone(values []float64, sampleRate, lo, hi float64, steps int) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("refine tone: %w", core.ErrInsufficientData)
	}
	if steps < 1 {
		return 0, fmt.Errorf("refine tone steps %d: %w", steps, core.ErrInvalidParameter)
	}
	g, err := NewGoertzel(0, sampleRate)
	if err != nil {
		return 0, err
	}
	lo = core.Clamp(lo, 0, sampleRate/2)
	hi = core.Clamp(hi, 0, sampleRate/2)
	if hi < lo {
		lo, hi = hi, lo
	}

	best, bestPower := lo, -1.0
	step := (hi - lo) / float64(steps)
	for i := 0; i <= steps; i++ {
		f := lo + float64(i)*step
		if err := g.SetFrequency(f); err != nil {
			return 0, err
		}
		g.ProcessBlock(values)
		if p := g.Power(); p > bestPower {
			best, bestPower = f, p
		}
	}
	return best, nil
}
