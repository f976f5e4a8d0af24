package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// PSD is a one-sided power spectral density in units²/Hz. Freqs and Density
// hold fftSize/2+1 bins from DC to Nyquist.
type PSD struct {
	Freqs    []float64
	Density  []float64
	Segments int
}

// Welch estimates the power spectral density of values by averaging
// periodograms of windowed, mean-removed segments of fftSize samples that
// advance by fftSize*(1-overlap).
func Welch(values []float64, sampleRate float64, fftSize int, win window.Type, overlap float64) (PSD, error) {
	if !core.IsPowerOfTwo(fftSize) || fftSize < 2 {
		return PSD{}, fmt.Errorf("fft size %d: %w", fftSize, core.ErrInvalidFFTSize)
	}
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return PSD{}, fmt.Errorf("sample rate %v: %w", sampleRate, core.ErrInvalidParameter)
	}
	if !(overlap >= 0 && overlap < 1) {
		return PSD{}, fmt.Errorf("overlap must be in [0, 1): %v: %w", overlap, core.ErrInvalidParameter)
	}
	if !win.Valid() {
		return PSD{}, fmt.Errorf("window %v: %w", win, core.ErrInvalidParameter)
	}
	if len(values) < fftSize {
		return PSD{}, fmt.Errorf("welch needs %d samples, have %d: %w", fftSize, len(values), core.ErrInsufficientData)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return PSD{}, fmt.Errorf("welch init fft plan: %w", err)
	}

	coeffs := window.Generate(win, fftSize, window.WithPeriodic())
	energy := vecmath.DotProduct(coeffs, coeffs)

	hop := int(math.Round(float64(fftSize) * (1 - overlap)))
	if hop < 1 {
		hop = 1
	}

	half := fftSize/2 + 1
	acc := make([]float64, half)
	seg := make([]float64, fftSize)
	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)

	segments := 0
	for start := 0; start+fftSize <= len(values); start += hop {
		copy(seg, values[start:start+fftSize])
		mean := vecmath.Sum(seg) / float64(fftSize)
		for i, v := range seg {
			in[i] = complex((v-mean)*coeffs[i], 0)
		}
		if err := plan.Forward(out, in); err != nil {
			return PSD{}, fmt.Errorf("welch forward fft: %w", err)
		}
		vecmath.AddBlockInPlace(acc, Power(out[:half]))
		segments++
	}

	scale := 1 / (sampleRate * energy * float64(segments))
	vecmath.ScaleBlockInPlace(acc, scale)
	for k := 1; k < half-1; k++ {
		acc[k] *= 2
	}

	return PSD{
		Freqs:    binFrequencies(half, sampleRate/float64(fftSize)),
		Density:  acc,
		Segments: segments,
	}, nil
}
