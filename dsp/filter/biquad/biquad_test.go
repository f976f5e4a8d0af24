package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestProcessSampleDFIIT(t *testing.T) {
	// B0=0.25, B1=0.5, B2=0.25, A1=-0.2, A2=0.04 traced by hand for an
	// impulse:
	//
	// n=0: y=0.25       d0=0.5+0.05=0.55   d1=0.25-0.01=0.24
	// n=1: y=0.55       d0=0.11+0.24=0.35  d1=-0.022
	// n=2: y=0.35       d0=0.07-0.022=0.048
	s := NewSection(Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04})
	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		x := 0.0
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesSample(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.3, B2: 0.1, A1: -0.5, A2: 0.2}
	input := []float64{1, -0.5, 0.25, 3, 0, 0, -2, 1}

	ref := NewSection(c)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = ref.ProcessSample(x)
	}

	blk := NewSection(c)
	buf := append([]float64(nil), input...)
	blk.ProcessBlock(buf[:3])
	blk.ProcessBlock(buf[3:])
	for i := range buf {
		if !almostEqual(buf[i], want[i], eps) {
			t.Fatalf("index %d: got %v, want %v", i, buf[i], want[i])
		}
	}
	if blk.state() != ref.state() {
		t.Fatalf("state %v, want %v", blk.state(), ref.state())
	}
}

func TestSettleHoldsConstant(t *testing.T) {
	c := NewChain([]Coefficients{
		{B0: 0.2, B1: 0.3, B2: 0.1, A1: -0.5, A2: 0.2},
		{B0: 0.5, B1: 0.5, A1: -0.1},
	})
	gain := c.Coefficients()[0].DCGain() * c.Coefficients()[1].DCGain()

	c.Settle(2)
	buf := []float64{2, 2, 2, 2, 2}
	c.ProcessBlock(buf)
	for i, y := range buf {
		if !almostEqual(y, 2*gain, 1e-12) {
			t.Fatalf("index %d: got %v, want %v", i, y, 2*gain)
		}
	}
}

func TestChainResponse(t *testing.T) {
	lp := Coefficients{B0: 0.5, B1: 0.5}
	c := NewChain([]Coefficients{lp, lp})

	if got := c.MagnitudeDB(0, 48000); !almostEqual(got, 0, 1e-12) {
		t.Fatalf("DC gain = %v dB, want 0", got)
	}
	// Each two-tap average is cos(w/2): -3.01 dB per section at fs/4.
	if got := c.MagnitudeDB(12000, 48000); !almostEqual(got, 20*math.Log10(0.5), 1e-9) {
		t.Fatalf("gain at fs/4 = %v dB", got)
	}
	if got := lp.MagnitudeSquared(12000, 48000); !almostEqual(got, 0.5, 1e-12) {
		t.Fatalf("|H|^2 at fs/4 = %v", got)
	}
}

func TestImpulseResponseRestoresState(t *testing.T) {
	c := NewChain([]Coefficients{{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}})
	c.ProcessSample(3)
	before := c.state()

	ir := c.ImpulseResponse(3)
	want := []float64{0.25, 0.55, 0.35}
	for i := range want {
		if !almostEqual(ir[i], want[i], eps) {
			t.Fatalf("ir[%d] = %v, want %v", i, ir[i], want[i])
		}
	}
	after := c.state()
	if len(after) != len(before) || after[0] != before[0] {
		t.Fatalf("state changed: %v -> %v", before, after)
	}
	if c.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}
