package frequency

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/spectrum"
)

// RolloffFraction is the share of spectral energy below the rolloff
// frequency.
const RolloffFraction = 0.85

// Descriptors summarizes the shape of a magnitude spectrum. Frequencies are
// in the unit of the bin frequencies passed in, usually Hz.
type Descriptors struct {
	// PeakFrequency and PeakValue describe the largest bin above DC.
	PeakFrequency float64 `json:"peak_frequency"`
	PeakValue     float64 `json:"peak_value"`
	// Centroid is the magnitude-weighted mean frequency.
	Centroid float64 `json:"centroid"`
	// Spread is the magnitude-weighted standard deviation around Centroid.
	Spread float64 `json:"spread"`
	// Flatness is the geometric over arithmetic mean of the non-DC bins,
	// 1 for white noise and 0 for a spectrum with an empty bin.
	Flatness float64 `json:"flatness"`
	// Rolloff is the frequency below which RolloffFraction of the energy lies.
	Rolloff float64 `json:"rolloff"`
	// Bandwidth is the width between the half-power points around the peak.
	Bandwidth float64 `json:"bandwidth"`
}

// Describe computes descriptors from bin frequencies and linear magnitudes.
// Magnitudes must be non-negative; the first bin is taken as DC.
func Describe(freqs, magnitude []float64) (Descriptors, error) {
	if len(freqs) != len(magnitude) {
		return Descriptors{}, fmt.Errorf("%w: %d freqs, %d bins", core.ErrLengthMismatch, len(freqs), len(magnitude))
	}
	if len(magnitude) < 2 {
		return Descriptors{}, fmt.Errorf("descriptors need 2 bins, have %d: %w", len(magnitude), core.ErrInsufficientData)
	}
	for i, v := range magnitude {
		if v < 0 || !core.IsFinite(v) {
			return Descriptors{}, fmt.Errorf("bin %d magnitude %v: %w", i, v, core.ErrInvalidParameter)
		}
	}
	if !(floats.Sum(magnitude) > 0) {
		return Descriptors{}, fmt.Errorf("descriptors of an empty spectrum: %w", core.ErrDegenerateSignal)
	}

	peak := floats.MaxIdx(magnitude[1:]) + 1
	centroid, variance := stat.PopMeanVariance(freqs, magnitude)

	return Descriptors{
		PeakFrequency: freqs[peak],
		PeakValue:     magnitude[peak],
		Centroid:      centroid,
		Spread:        math.Sqrt(variance),
		Flatness:      flatness(magnitude[1:]),
		Rolloff:       rolloff(freqs, magnitude, RolloffFraction),
		Bandwidth:     bandwidth(freqs, magnitude, peak),
	}, nil
}

// DescribeFrame computes descriptors of a spectrum frame. Power frames are
// converted back to magnitudes first.
func DescribeFrame(f spectrum.Frame) (Descriptors, error) {
	mag := f.Values
	if f.Scale == spectrum.ScalePower {
		mag = make([]float64, len(f.Values))
		for i, v := range f.Values {
			mag[i] = math.Sqrt(math.Max(v, 0))
		}
	}
	return Describe(f.Freqs, mag)
}

func flatness(bins []float64) float64 {
	arith := stat.Mean(bins, nil)
	if arith == 0 {
		return 0
	}
	for _, v := range bins {
		if v == 0 {
			return 0
		}
	}
	return stat.GeometricMean(bins, nil) / arith
}

func rolloff(freqs, magnitude []float64, fraction float64) float64 {
	energy := make([]float64, len(magnitude))
	floats.MulTo(energy, magnitude, magnitude)
	floats.CumSum(energy, energy)
	i := sort.SearchFloat64s(energy, fraction*energy[len(energy)-1])
	return freqs[min(i, len(freqs)-1)]
}

// bandwidth walks out from the peak to the bins where the magnitude first
// drops to peak/sqrt2, interpolating linearly between bins. An edge of the
// spectrum bounds the search.
func bandwidth(freqs, magnitude []float64, peak int) float64 {
	threshold := magnitude[peak] / math.Sqrt2

	lower := freqs[0]
	for i := peak; i >= 1; i-- {
		if magnitude[i-1] <= threshold {
			lower = interpFreq(freqs[i-1], freqs[i], magnitude[i-1], magnitude[i], threshold)
			break
		}
	}
	upper := freqs[len(freqs)-1]
	for i := peak; i < len(freqs)-1; i++ {
		if magnitude[i+1] <= threshold {
			upper = interpFreq(freqs[i], freqs[i+1], magnitude[i], magnitude[i+1], threshold)
			break
		}
	}
	return math.Max(0, upper-lower)
}

func interpFreq(fLow, fHigh, magLow, magHigh, threshold float64) float64 {
	denom := magHigh - magLow
	if denom == 0 {
		return (fLow + fHigh) / 2
	}
	return fLow + (threshold-magLow)/denom*(fHigh-fLow)
}
