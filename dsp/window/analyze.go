package window

import "math"

// Analysis holds numerically computed spectral properties of a window.
type Analysis struct {
	// CoherentGain is sum(w[n]) / N, the amplitude scale applied to an
	// on-bin tone.
	CoherentGain float64
	// ENBW is the equivalent noise bandwidth in bins.
	ENBW float64
	// Bandwidth3dB is the two-sided half-power main lobe width in bins.
	Bandwidth3dB float64
	// ScallopLossdB is the amplitude error for a tone half a bin off-center.
	ScallopLossdB float64
}

// Analyze evaluates the window's DFT numerically and returns its leakage
// and resolution figures. An empty or zero-sum window yields a zero
// Analysis.
func Analyze(coeffs []float64) Analysis {
	n := len(coeffs)
	if n == 0 {
		return Analysis{}
	}
	dc := responseAt(coeffs, 0)
	if dc == 0 {
		return Analysis{}
	}

	cg, _ := CoherentGain(coeffs)
	enbw, _ := EquivalentNoiseBandwidth(coeffs)

	return Analysis{
		CoherentGain:  cg,
		ENBW:          enbw,
		Bandwidth3dB:  halfPowerWidth(coeffs, dc),
		ScallopLossdB: 10 * math.Log10(responseAt(coeffs, 0.5/float64(n))/dc),
	}
}

// responseAt returns |W(f)|² at normalised frequency f in cycles/sample.
func responseAt(coeffs []float64, f float64) float64 {
	var re, im float64
	w := 2 * math.Pi * f
	for k, c := range coeffs {
		s, co := math.Sincos(w * float64(k))
		re += c * co
		im -= c * s
	}
	return re*re + im*im
}

// halfPowerWidth bisects for the frequency where the response falls to half
// of its DC power. Every supported window stays below half power between
// its 3 dB point and 4 bins.
func halfPowerWidth(coeffs []float64, dc float64) float64 {
	n := float64(len(coeffs))
	lo, hi := 0.0, math.Min(0.5, 4/n)
	for i := 0; i < 64; i++ {
		mid := (lo + hi) / 2
		if responseAt(coeffs, mid)/dc > 0.5 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 2 * lo * n
}
