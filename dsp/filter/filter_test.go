package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stream/dsp/core"
)

const fs = 1000.0

var corner = -10 * math.Log10(2)

func mustNew(t *testing.T, s Spec) *Filter {
	t.Helper()
	f, err := New(s)
	if err != nil {
		t.Fatalf("New(%+v): %v", s, err)
	}
	return f
}

func assertDB(t *testing.T, f *Filter, hz, want, tol float64) {
	t.Helper()
	if got := f.MagnitudeDB(hz); math.Abs(got-want) > tol {
		t.Errorf("%v order %d at %v Hz = %.6f dB, want %.6f", f.spec.Kind, f.spec.Order, hz, got, want)
	}
}

func TestLowpassHighpassCorners(t *testing.T) {
	for order := 1; order <= 8; order++ {
		lp := mustNew(t, Spec{Kind: Lowpass, Order: order, Low: 100, SampleRate: fs})
		assertDB(t, lp, 0, 0, 1e-9)
		assertDB(t, lp, 100, corner, 1e-6)

		hp := mustNew(t, Spec{Kind: Highpass, Order: order, Low: 100, SampleRate: fs})
		assertDB(t, hp, fs/2, 0, 1e-9)
		assertDB(t, hp, 100, corner, 1e-6)
	}
}

func TestHigherOrderRollsOffFaster(t *testing.T) {
	prev := 0.0
	for order := 1; order <= 6; order++ {
		db := mustNew(t, Spec{Kind: Lowpass, Order: order, Low: 50, SampleRate: fs}).MagnitudeDB(200)
		if db >= prev {
			t.Fatalf("order %d: %v dB at 200 Hz, not below %v", order, db, prev)
		}
		prev = db
	}
}

func TestBandpass(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4} {
		bp := mustNew(t, Spec{Kind: Bandpass, Order: order, Low: 50, High: 150, SampleRate: fs})
		w0 := math.Sqrt(math.Tan(math.Pi*50/fs) * math.Tan(math.Pi*150/fs))
		assertDB(t, bp, math.Atan(w0)*fs/math.Pi, 0, 1e-9)
		assertDB(t, bp, 50, corner, 1e-6)
		assertDB(t, bp, 150, corner, 1e-6)
		if db := bp.MagnitudeDB(5); db > -20*float64(order) {
			t.Errorf("order %d: %v dB at 5 Hz", order, db)
		}
	}
}

func TestBandstop(t *testing.T) {
	bs := mustNew(t, Spec{Kind: Bandstop, Order: 2, Low: 45, High: 55, SampleRate: fs})
	assertDB(t, bs, 0, 0, 1e-9)
	assertDB(t, bs, 45, corner, 1e-6)
	assertDB(t, bs, 55, corner, 1e-6)

	w0 := math.Sqrt(math.Tan(math.Pi*45/fs) * math.Tan(math.Pi*55/fs))
	if db := bs.MagnitudeDB(math.Atan(w0) * fs / math.Pi); db > -100 {
		t.Errorf("notch depth %v dB", db)
	}
}

func TestSectionsStable(t *testing.T) {
	specs := []struct {
		spec     Spec
		sections int
	}{
		{Spec{Kind: Lowpass, Order: 5, Low: 10, SampleRate: fs}, 3},
		{Spec{Kind: Highpass, Order: 4, Low: 10, SampleRate: fs}, 2},
		{Spec{Kind: Bandpass, Order: 3, Low: 10, High: 20, SampleRate: fs}, 3},
		{Spec{Kind: Bandstop, Order: 4, Low: 100, High: 300, SampleRate: fs}, 4},
		{Spec{Kind: Lowpass, Order: MaxOrder, Low: 1, SampleRate: fs}, MaxOrder / 2},
	}
	for _, tt := range specs {
		f := mustNew(t, tt.spec)
		secs := f.Sections()
		if len(secs) != tt.sections {
			t.Errorf("%+v: %d sections, want %d", tt.spec, len(secs), tt.sections)
		}
		for i, c := range secs {
			if math.Abs(c.A2) >= 1 || math.Abs(c.A1) >= 1+c.A2 {
				t.Errorf("%+v section %d unstable: %+v", tt.spec, i, c)
			}
		}
	}
}

func TestDesignErrors(t *testing.T) {
	bad := []Spec{
		{Kind: Kind(9), Order: 2, Low: 10, SampleRate: fs},
		{Kind: Lowpass, Order: 0, Low: 10, SampleRate: fs},
		{Kind: Lowpass, Order: MaxOrder + 1, Low: 10, SampleRate: fs},
		{Kind: Lowpass, Order: 2, Low: 10, SampleRate: 0},
		{Kind: Lowpass, Order: 2, Low: 500, SampleRate: fs},
		{Kind: Highpass, Order: 2, Low: 0, SampleRate: fs},
		{Kind: Bandpass, Order: 2, Low: 100, High: 100, SampleRate: fs},
		{Kind: Bandstop, Order: 2, Low: 100, High: 600, SampleRate: fs},
	}
	for _, s := range bad {
		if _, err := New(s); !errors.Is(err, core.ErrInvalidParameter) {
			t.Errorf("New(%+v) err = %v, want ErrInvalidParameter", s, err)
		}
	}
}

func sines(n int, parts ...[2]float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		for _, p := range parts {
			out[i] += p[1] * math.Sin(2*math.Pi*p[0]*float64(i)/fs)
		}
	}
	return out
}

func TestFiltFiltZeroPhase(t *testing.T) {
	in := sines(2000, [2]float64{5, 1}, [2]float64{200, 0.5})
	want := sines(2000, [2]float64{5, 1})

	got, err := ZeroPhase(in, Spec{Kind: Lowpass, Order: 4, Low: 50, SampleRate: fs})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(in) {
		t.Fatalf("len %d, want %d", len(got), len(in))
	}
	for i := 200; i < 1800; i++ {
		if math.Abs(got[i]-want[i]) > 1e-3 {
			t.Fatalf("sample %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFiltFiltConstant(t *testing.T) {
	in := make([]float64, 100)
	for i := range in {
		in[i] = 3.5
	}
	for _, kind := range []Kind{Lowpass, Bandstop} {
		f := mustNew(t, Spec{Kind: kind, Order: 3, Low: 40, High: 60, SampleRate: fs})
		got, err := f.FiltFilt(in)
		if err != nil {
			t.Fatal(err)
		}
		for i, v := range got {
			if math.Abs(v-3.5) > 1e-9 {
				t.Fatalf("%v sample %d = %v", kind, i, v)
			}
		}
	}

	hp := mustNew(t, Spec{Kind: Highpass, Order: 2, Low: 5, SampleRate: fs})
	got, err := hp.Apply(in)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if math.Abs(v) > 1e-9 {
			t.Fatalf("highpass sample %d = %v", i, v)
		}
	}
}

func TestImpulseResponseSumsToDCGain(t *testing.T) {
	f := mustNew(t, Spec{Kind: Lowpass, Order: 4, Low: fs / 50, SampleRate: fs})
	ir := f.ImpulseResponse(2000)
	if len(ir) != 2000 {
		t.Fatalf("len=%d, want 2000", len(ir))
	}
	var sum float64
	for _, v := range ir {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("impulse response sum = %v, want 1", sum)
	}
	if f.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}

func TestFilterShortAndInvalidInput(t *testing.T) {
	f := mustNew(t, Spec{Kind: Lowpass, Order: 2, Low: 10, SampleRate: fs})

	got, err := f.FiltFilt([]float64{1.5})
	if err != nil || len(got) != 1 || got[0] != 1.5 {
		t.Fatalf("single sample: %v, %v", got, err)
	}
	if got, err := f.FiltFilt([]float64{1, 2, 3}); err != nil || len(got) != 3 {
		t.Fatalf("three samples: %v, %v", got, err)
	}
	if _, err := f.FiltFilt([]float64{1, math.NaN(), 3}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("NaN err = %v", err)
	}
	if _, err := f.Apply([]float64{math.Inf(1)}); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Inf err = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"lowpass": Lowpass, "LP": Lowpass, "high-pass": Highpass,
		"bandpass": Bandpass, "band_stop": Bandstop, "notch": Bandstop,
	}
	for name, want := range cases {
		got, err := ParseKind(name)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseKind("comb"); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("ParseKind(comb) err = %v", err)
	}
	if Bandpass.String() != "bandpass" || !Bandstop.Band() || Lowpass.Band() {
		t.Error("kind helpers")
	}
}
