package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/filter/biquad"
)

// MaxOrder bounds the prototype order accepted by Design.
const MaxOrder = 16

// Spec describes a Butterworth design. Low is the corner of lowpass and
// highpass designs and the lower corner of band designs; High is only used
// by band designs.
type Spec struct {
	Kind       Kind
	Order      int
	Low, High  float64
	SampleRate float64
}

func (s Spec) validate() error {
	if !s.Kind.Valid() {
		return fmt.Errorf("filter %v: %w", s.Kind, core.ErrInvalidParameter)
	}
	if s.Order < 1 || s.Order > MaxOrder {
		return fmt.Errorf("filter order %d outside [1, %d]: %w", s.Order, MaxOrder, core.ErrInvalidParameter)
	}
	if !(s.SampleRate > 0) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("sample rate %v: %w", s.SampleRate, core.ErrInvalidParameter)
	}
	nyq := s.SampleRate / 2
	if !(s.Low > 0 && s.Low < nyq) {
		return fmt.Errorf("corner %v Hz outside (0, %v): %w", s.Low, nyq, core.ErrInvalidParameter)
	}
	if s.Kind.Band() && !(s.High > s.Low && s.High < nyq) {
		return fmt.Errorf("upper corner %v Hz outside (%v, %v): %w", s.High, s.Low, nyq, core.ErrInvalidParameter)
	}
	return nil
}

// Design returns the biquad sections of a Butterworth filter. Each section
// is normalized to unit gain at the passband reference: DC for lowpass and
// bandstop, Nyquist for highpass and the geometric centre for bandpass.
func Design(s Spec) ([]biquad.Coefficients, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	fs2 := 2 * s.SampleRate
	warp := func(f float64) float64 { return fs2 * math.Tan(math.Pi*f/s.SampleRate) }
	wl := warp(s.Low)
	var w0, bw float64
	if s.Kind.Band() {
		wh := warp(s.High)
		w0, bw = math.Sqrt(wl*wh), wh-wl
	}

	var ref float64
	switch s.Kind {
	case Highpass:
		ref = s.SampleRate / 2
	case Bandpass:
		ref = math.Atan(w0/fs2) * s.SampleRate / math.Pi
	}

	var sections []biquad.Coefficients
	emit := func(poles []complex128, zeros []complex128) {
		c := fromRoots(bilinear(poles, fs2), zeros)
		sections = append(sections, normalize(c, ref, s.SampleRate))
	}

	for _, p := range prototypePoles(s.Order) {
		switch s.Kind {
		case Lowpass:
			emit(pair(p*complex(wl, 0)), lowpassZeros(p))
		case Highpass:
			emit(pair(complex(wl, 0)/p), highpassZeros(p))
		case Bandpass:
			a, b := bandPoles(p*complex(bw/2, 0), w0)
			if imag(p) == 0 {
				emit([]complex128{a, b}, []complex128{1, -1})
				continue
			}
			emit(pair(a), []complex128{1, -1})
			emit(pair(b), []complex128{1, -1})
		case Bandstop:
			a, b := bandPoles(complex(bw/2, 0)/p, w0)
			notch := bilinear([]complex128{complex(0, w0)}, fs2)[0]
			zeros := []complex128{notch, cmplx.Conj(notch)}
			if imag(p) == 0 {
				emit([]complex128{a, b}, zeros)
				continue
			}
			emit(pair(a), zeros)
			emit(pair(b), zeros)
		}
	}
	return sections, nil
}

// prototypePoles returns the left-half-plane poles of the unit analog
// Butterworth prototype with non-negative imaginary part; conjugates are
// implied. A real pole is present for odd orders.
func prototypePoles(order int) []complex128 {
	poles := make([]complex128, 0, (order+1)/2)
	for k := 0; k < order/2; k++ {
		theta := math.Pi * float64(2*k+1+order) / float64(2*order)
		poles = append(poles, cmplx.Rect(1, theta))
	}
	if order%2 == 1 {
		poles = append(poles, -1)
	}
	return poles
}

// pair expands a pole into itself plus its conjugate, or just itself when
// it is real.
func pair(p complex128) []complex128 {
	if imag(p) == 0 {
		return []complex128{p}
	}
	return []complex128{p, cmplx.Conj(p)}
}

func lowpassZeros(p complex128) []complex128 {
	if imag(p) == 0 {
		return []complex128{-1}
	}
	return []complex128{-1, -1}
}

func highpassZeros(p complex128) []complex128 {
	if imag(p) == 0 {
		return []complex128{1}
	}
	return []complex128{1, 1}
}

// bandPoles solves s² - 2q·s + w0² = 0, the image of a prototype pole
// under the band transformations.
func bandPoles(q complex128, w0 float64) (complex128, complex128) {
	d := cmplx.Sqrt(q*q - complex(w0*w0, 0))
	return q + d, q - d
}

// bilinear maps analog roots to the z-plane: z = (2fs + s) / (2fs - s).
func bilinear(roots []complex128, fs2 float64) []complex128 {
	out := make([]complex128, len(roots))
	k := complex(fs2, 0)
	for i, s := range roots {
		out[i] = (k + s) / (k - s)
	}
	return out
}

// fromRoots builds a section from one or two z-plane poles and zeros.
// Complex roots must be passed with their conjugate.
func fromRoots(poles, zeros []complex128) biquad.Coefficients {
	b0, b1, b2 := poly(zeros)
	_, a1, a2 := poly(poles)
	return biquad.Coefficients{B0: b0, B1: b1, B2: b2, A1: a1, A2: a2}
}

// poly expands prod(1 - r·z⁻¹) into real coefficients.
func poly(roots []complex128) (c0, c1, c2 float64) {
	switch len(roots) {
	case 1:
		return 1, -real(roots[0]), 0
	case 2:
		return 1, -real(roots[0] + roots[1]), real(roots[0] * roots[1])
	}
	return 1, 0, 0
}

func normalize(c biquad.Coefficients, refHz, sampleRate float64) biquad.Coefficients {
	g := math.Sqrt(c.MagnitudeSquared(refHz, sampleRate))
	if g == 0 || math.IsNaN(g) || math.IsInf(g, 0) {
		return c
	}
	c.B0 /= g
	c.B1 /= g
	c.B2 /= g
	return c
}
