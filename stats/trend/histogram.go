package trend

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Histogram counts values in equal-width bins spanning [min, max]. Edges
// has one more element than Counts; the last bin includes max.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// NewHistogram bins the finite elements of values into bins equal-width
// bins. A constant input is centred in a range of width 1.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("histogram bins %d: %w", bins, core.ErrInvalidParameter)
	}
	data := append([]float64(nil), core.Finite(values)...)
	if len(data) == 0 {
		return Histogram{}, fmt.Errorf("histogram: %w", core.ErrInsufficientData)
	}
	sort.Float64s(data)

	lo, hi := data[0], data[len(data)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	dividers := append([]float64(nil), edges...)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	weights := stat.Histogram(nil, dividers, data, nil)
	counts := make([]int, bins)
	for i, w := range weights {
		counts[i] = int(w)
	}
	return Histogram{Edges: edges, Counts: counts}, nil
}
