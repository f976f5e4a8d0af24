package filter

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/filter/biquad"
)

// Filter is a designed Butterworth cascade. It holds no signal state, so
// one Filter may be applied to many captures concurrently.
type Filter struct {
	spec   Spec
	coeffs []biquad.Coefficients
}

// New designs the filter described by s.
func New(s Spec) (*Filter, error) {
	coeffs, err := Design(s)
	if err != nil {
		return nil, err
	}
	return &Filter{spec: s, coeffs: coeffs}, nil
}

// Spec returns the design parameters.
func (f *Filter) Spec() Spec { return f.spec }

// Sections returns a copy of the section coefficients.
func (f *Filter) Sections() []biquad.Coefficients {
	return slices.Clone(f.coeffs)
}

// MagnitudeDB returns the single-pass magnitude response at freqHz.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return biquad.NewChain(f.coeffs).MagnitudeDB(freqHz, f.spec.SampleRate)
}

// ImpulseResponse returns the first n samples of the causal response to a
// unit impulse.
func (f *Filter) ImpulseResponse(n int) []float64 {
	return biquad.NewChain(f.coeffs).ImpulseResponse(n)
}

// Apply filters values causally. The cascade starts settled on the first
// sample, so a signal that begins at a DC level has no start-up transient.
func (f *Filter) Apply(values []float64) ([]float64, error) {
	if err := checkFinite(values); err != nil {
		return nil, err
	}
	out := slices.Clone(values)
	if len(out) == 0 {
		return out, nil
	}
	run(biquad.NewChain(f.coeffs), out)
	return out, nil
}

// FiltFilt runs the cascade forward and then backward, giving zero phase
// shift and the squared magnitude response. Both ends are padded with an
// odd reflection of the signal to suppress edge transients.
func (f *Filter) FiltFilt(values []float64) ([]float64, error) {
	if err := checkFinite(values); err != nil {
		return nil, err
	}
	n := len(values)
	if n < 2 {
		return slices.Clone(values), nil
	}

	pad := min(3*(2*len(f.coeffs)+1), n-1)
	ext := make([]float64, 0, n+2*pad)
	first, last := values[0], values[n-1]
	for i := pad; i >= 1; i-- {
		ext = append(ext, 2*first-values[i])
	}
	ext = append(ext, values...)
	for i := n - 2; i >= n-1-pad; i-- {
		ext = append(ext, 2*last-values[i])
	}

	chain := biquad.NewChain(f.coeffs)
	run(chain, ext)
	slices.Reverse(ext)
	chain.Reset()
	run(chain, ext)
	slices.Reverse(ext)

	return ext[pad : pad+n : pad+n], nil
}

// ZeroPhase designs s and applies it forward-backward to values.
func ZeroPhase(values []float64, s Spec) ([]float64, error) {
	f, err := New(s)
	if err != nil {
		return nil, err
	}
	return f.FiltFilt(values)
}

func run(chain *biquad.Chain, buf []float64) {
	chain.Settle(buf[0])
	chain.ProcessBlock(buf)
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if !core.IsFinite(v) {
			return fmt.Errorf("filter input sample %d is %v: %w", i, v, core.ErrInvalidParameter)
		}
	}
	return nil
}
