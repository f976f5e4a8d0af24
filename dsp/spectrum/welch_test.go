package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/window"
	"github.com/cwbudde/algo-stream/internal/testutil"
)

func integrate(psd PSD) float64 {
	df := psd.Freqs[1] - psd.Freqs[0]
	sum := 0.0
	for _, d := range psd.Density {
		sum += d * df
	}
	return sum
}

func TestWelchSinePower(t *testing.T) {
	const fs = 1000.0
	sig := testutil.DeterministicSine(125, fs, 3, 4096)

	psd, err := Welch(sig, fs, 1024, window.TypeHann, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if psd.Segments != 7 {
		t.Fatalf("segments=%d, want 7", psd.Segments)
	}
	if len(psd.Density) != 513 {
		t.Fatalf("bins=%d, want 513", len(psd.Density))
	}
	if got := integrate(psd); math.Abs(got-4.5)/4.5 > 0.02 {
		t.Fatalf("integrated power=%v, want 4.5", got)
	}

	peak := 0
	for k := range psd.Density {
		if psd.Density[k] > psd.Density[peak] {
			peak = k
		}
	}
	if math.Abs(psd.Freqs[peak]-125) > fs/1024 {
		t.Fatalf("peak at %v Hz, want 125", psd.Freqs[peak])
	}
}

func TestWelchNoiseVariance(t *testing.T) {
	noise := testutil.DeterministicNoise(11, 1, 32768)
	psd, err := Welch(noise, 1, 256, window.TypeHamming, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := 1.0 / 3
	if got := integrate(psd); math.Abs(got-want)/want > 0.1 {
		t.Fatalf("integrated noise power=%v, want %v", got, want)
	}
}

func TestWelchErrors(t *testing.T) {
	sig := make([]float64, 100)
	if _, err := Welch(sig, 1, 128, window.TypeHann, 0.5); !errors.Is(err, core.ErrInsufficientData) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Welch(sig, 1, 48, window.TypeHann, 0.5); !errors.Is(err, core.ErrInvalidFFTSize) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Welch(sig, -1, 64, window.TypeHann, 0.5); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
	if _, err := Welch(sig, 1, 64, window.TypeHann, 1); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("err=%v", err)
	}
}
