package channel

import (
	"log/slog"

	"github.com/cwbudde/algo-stream/dsp/spectrum"
	"github.com/cwbudde/algo-stream/measure/quality"
	"github.com/cwbudde/algo-stream/measure/waveform"
)

// Option configures a [Channel].
type Option func(*config)

type config struct {
	logger *slog.Logger

	decimationRate float64

	fftSize     int
	spectrumOps []spectrum.Option

	waveformOps []waveform.Option
	qualityOps  []quality.Option
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithDecimation enables min/max decimation of ingested samples to rate
// points per second.
func WithDecimation(rate float64) Option {
	return func(cfg *config) {
		cfg.decimationRate = rate
	}
}

// WithSpectrum enables a spectral estimator over the last fftSize samples.
func WithSpectrum(fftSize int, opts ...spectrum.Option) Option {
	return func(cfg *config) {
		cfg.fftSize = fftSize
		cfg.spectrumOps = opts
	}
}

// WithWaveformOptions configures the analyzer behind Channel.Waveform.
func WithWaveformOptions(opts ...waveform.Option) Option {
	return func(cfg *config) {
		cfg.waveformOps = opts
	}
}

// WithQualityOptions configures the analyzer behind Channel.Quality.
func WithQualityOptions(opts ...quality.Option) Option {
	return func(cfg *config) {
		cfg.qualityOps = opts
	}
}
