package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/internal/testutil"
)

const tolerance = 1e-10

func TestCalculateEmpty(t *testing.T) {
	s := Calculate(nil)
	if s.Length != 0 || !math.IsNaN(s.Mean) || !math.IsNaN(s.Max) || !math.IsNaN(s.Min) {
		t.Fatalf("Calculate(nil) = %+v", s)
	}
}

func TestCalculateSine(t *testing.T) {
	// 10 full cycles, so the mean is zero up to rounding.
	sig := testutil.DeterministicSine(50, 1000, 2, 200)
	s := Calculate(sig)

	if math.Abs(s.Mean) > 1e-12 {
		t.Fatalf("Mean = %v, want 0", s.Mean)
	}
	if math.Abs(s.RMS-2/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS = %v, want %v", s.RMS, 2/math.Sqrt2)
	}
	if math.Abs(s.Std-s.RMS) > 1e-9 {
		t.Fatalf("Std = %v, want RMS %v for zero-mean signal", s.Std, s.RMS)
	}
	if math.Abs(s.Skewness) > 1e-9 {
		t.Fatalf("Skewness = %v, want 0", s.Skewness)
	}
	// Excess kurtosis of a sine is -1.5.
	if math.Abs(s.Kurtosis+1.5) > 1e-9 {
		t.Fatalf("Kurtosis = %v, want -1.5", s.Kurtosis)
	}
	if math.Abs(s.Range-4) > 1e-9 {
		t.Fatalf("Range = %v, want 4", s.Range)
	}
}

func TestCalculateExtremaPositions(t *testing.T) {
	s := Calculate([]float64{3, -1, 7, 7, -1})
	if s.Max != 7 || s.MaxPos != 2 {
		t.Fatalf("Max = %v at %d, want 7 at 2", s.Max, s.MaxPos)
	}
	if s.Min != -1 || s.MinPos != 1 {
		t.Fatalf("Min = %v at %d, want -1 at 1", s.Min, s.MinPos)
	}
	if s.Energy != 9+1+49+49+1 {
		t.Fatalf("Energy = %v", s.Energy)
	}
}

func TestMomentsMatchesTwoPass(t *testing.T) {
	sig := testutil.DeterministicNoise(7, 3, 513)
	mean, variance, skew, kurt := Moments(sig)

	var sum float64
	for _, x := range sig {
		sum += x
	}
	wantMean := sum / float64(len(sig))
	var m2, m3, m4 float64
	for _, x := range sig {
		d := x - wantMean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	n := float64(len(sig))
	wantVar := m2 / n
	wantSkew := (m3 / n) / math.Pow(wantVar, 1.5)
	wantKurt := (m4/n)/(wantVar*wantVar) - 3

	for _, c := range []struct {
		name      string
		got, want float64
	}{
		{"mean", mean, wantMean},
		{"variance", variance, wantVar},
		{"skewness", skew, wantSkew},
		{"kurtosis", kurt, wantKurt},
	} {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestMomentsConstantSignal(t *testing.T) {
	_, variance, skew, kurt := Moments(testutil.DC(4, 10))
	if variance != 0 || skew != 0 || kurt != 0 {
		t.Fatalf("constant moments = %v %v %v", variance, skew, kurt)
	}
}

func TestRMSAndDC(t *testing.T) {
	if RMS(nil) != 0 || DC(nil) != 0 {
		t.Fatal("empty RMS/DC should be 0")
	}
	if got := RMS([]float64{3, -3, 3, -3}); math.Abs(got-3) > tolerance {
		t.Fatalf("RMS = %v, want 3", got)
	}
	if got := DC([]float64{1, 2, 3, 4}); math.Abs(got-2.5) > tolerance {
		t.Fatalf("DC = %v, want 2.5", got)
	}
}
