// Package quality scores a capture for the defects that make measurements
// untrustworthy: missing or non-finite data, a stuck sensor, clipping,
// outliers and unsteady sampling.
//
// A report starts at 100 and loses a fixed number of points for every
// issue found. Issues are listed in the order of the IssueKind constants.
package quality

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// IssueKind tags one class of data defect.
type IssueKind string

const (
	NoData            IssueKind = "no_data"
	NonFinite         IssueKind = "non_finite"
	ConstantSignal    IssueKind = "constant_signal"
	ClippingHigh      IssueKind = "clipping_high"
	ClippingLow       IssueKind = "clipping_low"
	Outliers          IssueKind = "outliers"
	IrregularSampling IssueKind = "irregular_sampling"
	NonMonotonicTime  IssueKind = "non_monotonic_time"
)

// Score deductions per issue. NoData forces the score to 0.
const (
	DeductNonFinite         = 25.0
	DeductConstantSignal    = 30.0
	DeductClipping          = 15.0
	DeductOutliers          = 10.0
	DeductIrregularSampling = 10.0
	DeductNonMonotonicTime  = 10.0
)

// Clipping detection thresholds.
const (
	// ClipMinCount is how many samples near a configured range bound mark
	// the capture as clipped.
	ClipMinCount = 3
	// ClipMinRun is the shortest run of samples pinned at the observed
	// extremum that marks the capture as clipped when no range is set.
	ClipMinRun = 3
	// clipRangeTolerance is the band near a configured bound, as a
	// fraction of the range.
	clipRangeTolerance = 1e-3
)

// MaxScore is the score of a capture with no issues.
const MaxScore = 100.0

// Issue describes one defect found in a capture.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Count  int       `json:"count"`
	Detail string    `json:"detail"`
}

// Report is the quality assessment of one capture.
type Report struct {
	Score       float64 `json:"score"`
	Issues      []Issue `json:"issues"`
	TotalPoints int     `json:"total_points"`
}

// Has reports whether the report lists an issue of the given kind.
func (r Report) Has(kind IssueKind) bool {
	for _, is := range r.Issues {
		if is.Kind == kind {
			return true
		}
	}
	return false
}

// Kinds returns the issue tags in report order.
func (r Report) Kinds() []IssueKind {
	out := make([]IssueKind, len(r.Issues))
	for i, is := range r.Issues {
		out[i] = is.Kind
	}
	return out
}

// Option configures an [Analyzer].
type Option func(*config)

type config struct {
	lo, hi       float64
	hasRange     bool
	outlierSigma float64
	irregularCV  float64
}

func defaultConfig() config {
	return config{
		outlierSigma: 3,
		irregularCV:  0.1,
	}
}

// WithRange sets the instrument's measurement range. Samples near either
// bound count toward clipping. Ignored unless lo < hi.
func WithRange(lo, hi float64) Option {
	return func(cfg *config) {
		if lo < hi && core.IsFinite(lo) && core.IsFinite(hi) {
			cfg.lo, cfg.hi, cfg.hasRange = lo, hi, true
		}
	}
}

// WithOutlierSigma sets how many standard deviations from the mean make a
// sample an outlier. The default is 3.
func WithOutlierSigma(k float64) Option {
	return func(cfg *config) {
		if k > 0 {
			cfg.outlierSigma = k
		}
	}
}

// WithIrregularCV sets the coefficient of variation of sampling intervals
// above which sampling is reported as irregular. The default is 0.1.
func WithIrregularCV(c float64) Option {
	return func(cfg *config) {
		if c > 0 {
			cfg.irregularCV = c
		}
	}
}

// Analyzer scores captures. It is stateless and safe for concurrent use.
type Analyzer struct {
	cfg config
}

// New returns an Analyzer.
func New(opts ...Option) *Analyzer {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Analyzer{cfg: cfg}
}

// Analyze scores a capture with default settings.
func Analyze(times, values []float64) (Report, error) {
	return New().Analyze(times, values)
}

// Analyze scores the capture described by times and values.
func (a *Analyzer) Analyze(times, values []float64) (Report, error) {
	if err := core.CheckPairs(times, values); err != nil {
		return Report{}, err
	}
	rep := Report{TotalPoints: len(values)}

	finite := core.Finite(values)
	if bad := len(values) - len(finite); bad > 0 {
		rep.add(NonFinite, bad, fmt.Sprintf("%d of %d samples are NaN or infinite", bad, len(values)))
	}
	if len(finite) == 0 {
		rep.Issues = append([]Issue{{Kind: NoData, Detail: "no finite samples"}}, rep.Issues...)
		rep.Score = 0
		return rep, nil
	}

	mean, std := stat.PopMeanStdDev(finite, nil)
	if !(std > 1e-12*math.Max(1, math.Abs(mean))) {
		rep.add(ConstantSignal, len(finite), fmt.Sprintf("all %d samples equal %g", len(finite), mean))
	} else {
		a.checkClipping(&rep, finite)
		a.checkOutliers(&rep, finite, mean, std)
	}
	a.checkTiming(&rep, times)

	rep.Score = MaxScore
	for _, is := range rep.Issues {
		rep.Score -= deduction(is.Kind)
	}
	rep.Score = math.Max(0, rep.Score)
	return rep, nil
}

func (r *Report) add(kind IssueKind, count int, detail string) {
	r.Issues = append(r.Issues, Issue{Kind: kind, Count: count, Detail: detail})
}

func deduction(kind IssueKind) float64 {
	switch kind {
	case NonFinite:
		return DeductNonFinite
	case ConstantSignal:
		return DeductConstantSignal
	case ClippingHigh, ClippingLow:
		return DeductClipping
	case Outliers:
		return DeductOutliers
	case IrregularSampling:
		return DeductIrregularSampling
	case NonMonotonicTime:
		return DeductNonMonotonicTime
	case NoData:
		return MaxScore
	default:
		return 0
	}
}

func (a *Analyzer) checkClipping(rep *Report, values []float64) {
	if a.cfg.hasRange {
		tol := clipRangeTolerance * (a.cfg.hi - a.cfg.lo)
		var high, low int
		for _, v := range values {
			if v >= a.cfg.hi-tol {
				high++
			}
			if v <= a.cfg.lo+tol {
				low++
			}
		}
		if high >= ClipMinCount {
			rep.add(ClippingHigh, high, fmt.Sprintf("%d samples at the upper range bound %g", high, a.cfg.hi))
		}
		if low >= ClipMinCount {
			rep.add(ClippingLow, low, fmt.Sprintf("%d samples at the lower range bound %g", low, a.cfg.lo))
		}
		return
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	// A saturated converter repeats the rail value exactly. A smooth crest
	// sampled finely still changes from sample to sample.
	if n := pinnedRuns(values, func(v float64) bool { return v == hi }); n > 0 {
		rep.add(ClippingHigh, n, fmt.Sprintf("%d samples flat at the maximum %g", n, hi))
	}
	if n := pinnedRuns(values, func(v float64) bool { return v == lo }); n > 0 {
		rep.add(ClippingLow, n, fmt.Sprintf("%d samples flat at the minimum %g", n, lo))
	}
}

// pinnedRuns returns the number of samples in runs of at least ClipMinRun
// consecutive samples matching at.
func pinnedRuns(values []float64, at func(float64) bool) int {
	total, run := 0, 0
	flush := func() {
		if run >= ClipMinRun {
			total += run
		}
		run = 0
	}
	for _, v := range values {
		if at(v) {
			run++
			continue
		}
		flush()
	}
	flush()
	return total
}

func (a *Analyzer) checkOutliers(rep *Report, values []float64, mean, std float64) {
	limit := a.cfg.outlierSigma * std
	n := 0
	for _, v := range values {
		if math.Abs(v-mean) > limit {
			n++
		}
	}
	if n > 0 {
		rep.add(Outliers, n, fmt.Sprintf("%d samples beyond %g sigma of the mean", n, a.cfg.outlierSigma))
	}
}

func (a *Analyzer) checkTiming(rep *Report, times []float64) {
	ts := core.Finite(times)
	if len(ts) < 3 {
		return
	}
	intervals := make([]float64, len(ts)-1)
	backwards := 0
	for i := 1; i < len(ts); i++ {
		intervals[i-1] = ts[i] - ts[i-1]
		if intervals[i-1] < 0 {
			backwards++
		}
	}

	mean, std := stat.PopMeanStdDev(intervals, nil)
	switch {
	case !(mean > 0):
		rep.add(IrregularSampling, len(intervals), fmt.Sprintf("timestamps do not advance (mean interval %g)", mean))
	case std/mean > a.cfg.irregularCV:
		rep.add(IrregularSampling, len(intervals), fmt.Sprintf("sampling interval CV %.3g exceeds %g", std/mean, a.cfg.irregularCV))
	}
	if backwards > 0 {
		rep.add(NonMonotonicTime, backwards, fmt.Sprintf("%d timestamps go backwards", backwards))
	}
}
