package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/dsp/core"
)

func TestSineLengthAndShape(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))
	out, err := g.Sine(250, 2, 8)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}
	want := []float64{0, 2, 0, -2, 0, 2, 0, -2}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Fatalf("out[%d]=%v, want %v", i, out[i], want[i])
		}
	}
}

func TestSinePhase(t *testing.T) {
	g := NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(100)}, WithPhase(math.Pi/2))
	out, err := g.Sine(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(out[0]-1) > 1e-15 {
		t.Fatalf("cosine start = %v, want 1", out[0])
	}
}

func TestSquareDuty(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(100))
	out, err := g.Square(10, 1, 0.3, 20)
	if err != nil {
		t.Fatalf("Square: %v", err)
	}
	high := 0
	for i, v := range out {
		if v == 1 {
			high++
		}
		if want := i%10 < 3; (v == 1) != want {
			t.Fatalf("out[%d]=%v", i, v)
		}
	}
	if high != 6 {
		t.Fatalf("high samples=%d, want 6", high)
	}

	if _, err := g.Square(10, 1, 1, 20); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("duty 1: err=%v", err)
	}
	if _, err := g.Square(0, 1, 0.5, 20); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("freq 0: err=%v", err)
	}
}

func TestRampAndTimes(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(4))
	ramp, err := g.Ramp(1, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	times, err := g.Times(10, 5)
	if err != nil {
		t.Fatal(err)
	}
	wantRamp := []float64{1, 1.5, 2, 2.5, 3}
	wantTimes := []float64{10, 10.25, 10.5, 10.75, 11}
	for i := range wantRamp {
		if ramp[i] != wantRamp[i] || times[i] != wantTimes[i] {
			t.Fatalf("i=%d ramp=%v times=%v", i, ramp[i], times[i])
		}
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a, err := NewGeneratorWithOptions(nil, WithSeed(42)).WhiteNoise(0.5, 256)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewGeneratorWithOptions(nil, WithSeed(42)).WhiteNoise(0.5, 256)
	c, _ := NewGeneratorWithOptions(nil, WithSeed(7)).WhiteNoise(0.5, 256)

	same, differ := true, false
	for i := range a {
		if a[i] < -0.5 || a[i] > 0.5 {
			t.Fatalf("a[%d]=%v out of range", i, a[i])
		}
		same = same && a[i] == b[i]
		differ = differ || a[i] != c[i]
	}
	if !same || !differ {
		t.Fatalf("seeded noise same=%v differ=%v", same, differ)
	}

	if _, err := NewGenerator().WhiteNoise(-1, 4); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
}

func TestAdd(t *testing.T) {
	out, err := Add([]float64{1, 2}, []float64{3, 4}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != 4.5 || out[1] != 6.5 {
		t.Fatalf("out=%v", out)
	}
	if _, err := Add([]float64{1}, []float64{1, 2}); !errors.Is(err, core.ErrLengthMismatch) {
		t.Fatalf("err=%v", err)
	}
}

func TestInvalidCounts(t *testing.T) {
	g := NewGenerator()
	if _, err := g.Sine(1, 1, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
	if _, err := g.Times(0, -1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
}
