package trend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Line is a least-squares fit value = Intercept + Slope*time.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	// StdErr is the standard error of Slope. It is 0 for two points.
	StdErr float64 `json:"std_error"`
}

// At evaluates the line.
func (l Line) At(t float64) float64 {
	return l.Intercept + l.Slope*t
}

// Fit returns the least-squares line through (times, values).
func Fit(times, values []float64) (Line, error) {
	if err := core.CheckPairs(times, values); err != nil {
		return Line{}, err
	}
	if len(times) < 2 {
		return Line{}, fmt.Errorf("trend fit needs 2 points, have %d: %w", len(times), core.ErrInsufficientData)
	}
	if _, v := stat.PopMeanVariance(times, nil); !(v > 0) {
		return Line{}, fmt.Errorf("trend fit over a single instant: %w", core.ErrDegenerateSignal)
	}

	alpha, beta := stat.LinearRegression(times, values, nil, false)
	line := Line{Slope: beta, Intercept: alpha}

	var ssRes, sxx float64
	tMean := stat.Mean(times, nil)
	for i, t := range times {
		r := values[i] - line.At(t)
		ssRes += r * r
		sxx += (t - tMean) * (t - tMean)
	}

	if _, v := stat.PopMeanVariance(values, nil); v > 0 {
		line.RSquared = stat.RSquared(times, values, nil, alpha, beta)
	} else {
		line.RSquared = 1
	}
	if n := len(times); n > 2 {
		line.StdErr = math.Sqrt(ssRes / float64(n-2) / sxx)
	}
	return line, nil
}

// Correlation returns the Pearson correlation coefficient of a and b.
func Correlation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d and %d samples", core.ErrLengthMismatch, len(a), len(b))
	}
	if len(a) < 2 {
		return 0, fmt.Errorf("correlation needs 2 samples, have %d: %w", len(a), core.ErrInsufficientData)
	}
	_, va := stat.PopMeanVariance(a, nil)
	_, vb := stat.PopMeanVariance(b, nil)
	if !(va > 0) || !(vb > 0) {
		return 0, fmt.Errorf("correlation with a constant series: %w", core.ErrDegenerateSignal)
	}
	return core.Clamp(stat.Correlation(a, b, nil), -1, 1), nil
}
