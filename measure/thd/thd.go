package thd

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/spectrum"
	"github.com/cwbudde/algo-stream/dsp/window"
)

const (
	// DefaultMaxHarmonics bounds the harmonic orders 2..N+1 measured.
	DefaultMaxHarmonics = 10
	// MinSamples is the shortest capture Analyze accepts.
	MinSamples = 64
)

// Result holds one distortion measurement.
type Result struct {
	Fundamental float64 `json:"fundamental"`
	// FundamentalAmplitude is the calibrated peak-bin amplitude.
	FundamentalAmplitude float64 `json:"fundamental_amplitude"`
	// Harmonics holds the level of orders 2, 3, ... relative to the
	// fundamental. Orders above Nyquist are not measured.
	Harmonics []float64     `json:"harmonics"`
	THD       float64       `json:"thd"`
	THDN      float64       `json:"thd_n"`
	OddHD     float64       `json:"odd_hd"`
	EvenHD    float64       `json:"even_hd"`
	SINAD     core.Optional `json:"sinad_db"`
}

// THDdB returns THD in decibels.
func (r Result) THDdB() float64 {
	return ratioToDB(r.THD)
}

// Option configures a measurement.
type Option func(*config)

type config struct {
	fundamental  float64
	maxHarmonics int
	captureBins  int
	window       window.Type
}

func defaultConfig() config {
	return config{
		maxHarmonics: DefaultMaxHarmonics,
		captureBins:  -1,
		window:       window.TypeBlackman,
	}
}

// WithFundamental fixes the fundamental frequency in Hz instead of taking
// the largest bin.
func WithFundamental(hz float64) Option {
	return func(cfg *config) {
		if hz > 0 && core.IsFinite(hz) {
			cfg.fundamental = hz
		}
	}
}

// WithMaxHarmonics sets the number of harmonic orders measured.
func WithMaxHarmonics(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxHarmonics = n
		}
	}
}

// WithCaptureBins overrides the per-component capture radius, which
// otherwise follows the window's main lobe.
func WithCaptureBins(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.captureBins = n
		}
	}
}

// WithWindow selects the window Analyze transforms with. The default is
// Blackman.
func WithWindow(t window.Type) Option {
	return func(cfg *config) {
		cfg.window = t
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Analyze transforms the most recent power-of-two run of values and
// measures its distortion.
func Analyze(values []float64, sampleRate float64, opts ...Option) (Result, error) {
	cfg := applyOptions(opts)
	values = core.Finite(values)
	if len(values) < MinSamples {
		return Result{}, fmt.Errorf("thd needs %d samples, have %d: %w", MinSamples, len(values), core.ErrInsufficientData)
	}
	size := 1 << (bits.Len(uint(len(values))) - 1)

	est, err := spectrum.NewEstimator(size, spectrum.WithWindow(cfg.window))
	if err != nil {
		return Result{}, err
	}
	est.AddSamples(values[len(values)-size:])
	frame, err := est.Compute(sampleRate, spectrum.ScalePower)
	if err != nil {
		return Result{}, err
	}
	return fromFrame(frame, cfg)
}

// FromFrame measures distortion in an already computed spectrum.
func FromFrame(f spectrum.Frame, opts ...Option) (Result, error) {
	return fromFrame(f, applyOptions(opts))
}

func fromFrame(f spectrum.Frame, cfg config) (Result, error) {
	n := len(f.Values)
	if n < 4 || len(f.Freqs) != n {
		return Result{}, fmt.Errorf("thd needs 4 bins, have %d: %w", n, core.ErrInsufficientData)
	}
	if !(f.BinWidth > 0) {
		return Result{}, fmt.Errorf("bin width %v: %w", f.BinWidth, core.ErrInvalidParameter)
	}

	power := f.Values
	if f.Scale != spectrum.ScalePower {
		power = make([]float64, n)
		for i, v := range f.Values {
			power[i] = v * v
		}
	}

	fund := peakBin(power)
	if cfg.fundamental > 0 {
		fund = min(max(int(math.Round(cfg.fundamental/f.BinWidth)), 1), n-1)
	}

	capture := cfg.captureBins
	if capture < 0 {
		capture = mainLobeBins(f.Window)
	}
	capture = min(capture, fund/2)

	fundLevel := level(power, fund, capture)
	if !(fundLevel > 0) {
		return Result{}, fmt.Errorf("no energy at the fundamental: %w", core.ErrDegenerateSignal)
	}

	res := Result{
		Fundamental:          f.Freqs[fund],
		FundamentalAmplitude: math.Sqrt(math.Max(power[fund], 0)),
	}
	var harmonic, odd, even float64
	for k := 2; len(res.Harmonics) < cfg.maxHarmonics && k*fund < n; k++ {
		h := level(power, k*fund, capture)
		ratio := h / fundLevel
		res.Harmonics = append(res.Harmonics, ratio)
		harmonic += ratio * ratio
		if k%2 == 0 {
			even += ratio * ratio
		} else {
			odd += ratio * ratio
		}
	}

	var total float64
	for _, p := range power[capture+1:] {
		total += math.Max(p, 0)
	}
	residual := math.Max(total-fundLevel*fundLevel, 0)

	res.THD = math.Sqrt(harmonic)
	res.OddHD = math.Sqrt(odd)
	res.EvenHD = math.Sqrt(even)
	res.THDN = math.Sqrt(residual) / fundLevel
	if res.THDN > 0 {
		res.SINAD = core.Some(-ratioToDB(res.THDN))
	}
	return res, nil
}

// level is the RSS amplitude of the bins within capture of bin.
func level(power []float64, bin, capture int) float64 {
	lo := max(bin-capture, 0)
	hi := min(bin+capture, len(power)-1)
	var sum float64
	for _, p := range power[lo : hi+1] {
		sum += math.Max(p, 0)
	}
	return math.Sqrt(sum)
}

func peakBin(power []float64) int {
	best := 1
	for k := 2; k < len(power); k++ {
		if power[k] > power[best] {
			best = k
		}
	}
	return best
}

// mainLobeBins is the half width of the window's main lobe in bins.
func mainLobeBins(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return 1
	case window.TypeBlackman:
		return 3
	default:
		return 2
	}
}

func ratioToDB(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(v)
}
