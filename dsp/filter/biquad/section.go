package biquad

import "math"

// Coefficients holds the transfer function of one second-order section with
// a0 normalized to 1.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// DCGain returns H(1), or NaN when the section has a pole at DC.
func (c Coefficients) DCGain() float64 {
	den := 1 + c.A1 + c.A2
	if den == 0 {
		return math.NaN()
	}
	return (c.B0 + c.B1 + c.B2) / den
}

// Section is a single biquad with its delay-line state.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section with zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y
	return y
}

// ProcessBlock filters buf in place.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1
	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}
	s.d0, s.d1 = d0, d1
}

// Settle loads the state the section would hold after an infinitely long
// constant input x, and returns the matching steady output.
func (s *Section) Settle(x float64) float64 {
	y := x * s.DCGain()
	if math.IsNaN(y) {
		s.Reset()
		return 0
	}
	s.d1 = s.B2*x - s.A2*y
	s.d0 = s.B1*x - s.A1*y + s.d1
	return y
}

// Reset clears the delay line.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// state returns the delay-line state [d0, d1].
func (s *Section) state() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// setState restores a saved delay-line state.
func (s *Section) setState(state [2]float64) {
	s.d0, s.d1 = state[0], state[1]
}
