// Package time provides time-domain statistics over sample records, both as
// one-shot batch computations and as a fixed-memory running accumulator
// for unbounded streams.
package time

import "math"

// Stats holds batch time-domain statistics of a record. All moments are
// population moments: variance divides by Length, not Length-1.
type Stats struct {
	Length   int
	Mean     float64
	RMS      float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Range    float64 // max - min
	Energy   float64 // sum of squares
	Variance float64
	Std      float64
	Skewness float64 // 0 when Variance is 0
	Kurtosis float64 // excess kurtosis, 0 when Variance is 0
}

// moments accumulates Welford's higher-order central moments.
type moments struct {
	n          int
	mean       float64
	m2, m3, m4 float64
}

func (m *moments) add(x float64) {
	m.n++
	ni := float64(m.n)
	delta := x - m.mean
	deltaN := delta / ni
	deltaN2 := deltaN * deltaN
	term1 := delta * deltaN * float64(m.n-1)

	// M4 must be updated before M3, and M3 before M2.
	m.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m.m2 - 4*deltaN*m.m3
	m.m3 += term1*deltaN*(float64(m.n-1)-1) - 3*deltaN*m.m2
	m.m2 += term1
	m.mean += deltaN
}

func (m *moments) shape() (variance, skewness, kurtosis float64) {
	if m.n == 0 {
		return 0, 0, 0
	}
	nf := float64(m.n)
	variance = m.m2 / nf
	if variance > 0 {
		skewness = (m.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m.m4/nf)/(variance*variance) - 3
	}
	return variance, skewness, kurtosis
}

// Calculate computes all statistics in a single pass using Welford's
// online algorithm for numerical stability on higher-order moments.
// An empty record yields a zero Stats with NaN extrema.
func Calculate(signal []float64) Stats {
	if len(signal) == 0 {
		return Stats{Mean: math.NaN(), Max: math.NaN(), Min: math.NaN()}
	}

	var (
		acc    moments
		sumSq  float64
		maxVal = signal[0]
		minVal = signal[0]
		maxPos int
		minPos int
	)
	for i, x := range signal {
		acc.add(x)
		sumSq += x * x
		if x > maxVal {
			maxVal, maxPos = x, i
		}
		if x < minVal {
			minVal, minPos = x, i
		}
	}

	variance, skewness, kurtosis := acc.shape()
	return Stats{
		Length:   len(signal),
		Mean:     acc.mean,
		RMS:      math.Sqrt(sumSq / float64(len(signal))),
		Max:      maxVal,
		MaxPos:   maxPos,
		Min:      minVal,
		MinPos:   minPos,
		Range:    maxVal - minVal,
		Energy:   sumSq,
		Variance: variance,
		Std:      math.Sqrt(variance),
		Skewness: skewness,
		Kurtosis: kurtosis,
	}
}

// Moments returns the mean, population variance, skewness, and excess
// kurtosis of the signal.
func Moments(signal []float64) (mean, variance, skewness, kurtosis float64) {
	var acc moments
	for _, x := range signal {
		acc.add(x)
	}
	variance, skewness, kurtosis = acc.shape()
	return acc.mean, variance, skewness, kurtosis
}

// RMS returns the root-mean-square of the signal, or 0 for an empty one.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(signal)))
}

// DC returns the mean of the signal using Kahan summation.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return sum / float64(len(signal))
}
