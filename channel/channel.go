// Package channel ties the streaming components together for one logical
// instrument channel: a rolling window of raw samples, running statistics,
// and optionally a decimated display stream and a spectral estimator.
//
// A Channel accepts samples from a single producer. Every reader works on
// a snapshot, so readers never block ingestion for longer than a copy.
package channel

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-stream/dsp/buffer"
	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/decimate"
	"github.com/cwbudde/algo-stream/dsp/spectrum"
	"github.com/cwbudde/algo-stream/measure/pattern"
	"github.com/cwbudde/algo-stream/measure/quality"
	"github.com/cwbudde/algo-stream/measure/waveform"
	timestats "github.com/cwbudde/algo-stream/stats/time"
)

var errSpectrumDisabled = errors.New("spectrum not enabled on channel")

// Channel is the ingestion session of one instrument channel.
type Channel struct {
	name string
	log  *slog.Logger

	// mu serialises Ingest and Reset so the components never disagree
	// about which samples they have seen.
	mu       sync.Mutex
	lastTime float64
	hasLast  bool

	buf   *buffer.Rolling
	stats *timestats.Running
	dec   *decimate.Decimator
	est   *spectrum.Estimator

	waveform *waveform.Analyzer
	quality  *quality.Analyzer
}

// New returns a channel that keeps the last capacity raw samples.
func New(name string, capacity int, opts ...Option) (*Channel, error) {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	buf, err := buffer.NewRolling(capacity)
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", name, err)
	}
	c := &Channel{
		name:     name,
		log:      cfg.logger.With(slog.String("channel", name)),
		buf:      buf,
		stats:    timestats.NewRunning(),
		waveform: waveform.New(cfg.waveformOps...),
		quality:  quality.New(cfg.qualityOps...),
	}

	if cfg.decimationRate != 0 {
		if c.dec, err = decimate.New(cfg.decimationRate); err != nil {
			return nil, fmt.Errorf("channel %s: %w", name, err)
		}
	}
	if cfg.fftSize != 0 {
		if c.est, err = spectrum.NewEstimator(cfg.fftSize, cfg.spectrumOps...); err != nil {
			return nil, fmt.Errorf("channel %s: %w", name, err)
		}
	}
	return c, nil
}

// Name returns the channel name.
func (c *Channel) Name() string { return c.name }

// Ingest appends a chunk of samples. Timestamps must not decrease, within
// the chunk or against earlier chunks; a rejected chunk leaves the channel
// unchanged. When decimation is enabled the points of buckets closed by
// this chunk are returned.
func (c *Channel) Ingest(times, values []float64) (decTimes, decValues []float64, err error) {
	if err := core.CheckPairs(times, values); err != nil {
		return nil, nil, err
	}
	if len(times) == 0 {
		return nil, nil, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev := times[0]
	if c.hasLast {
		prev = c.lastTime
	}
	if i := core.CheckOrder(prev, times); i >= 0 {
		c.log.Warn("rejected chunk", slog.Int("index", i), slog.Float64("time", times[i]), slog.Int("size", len(times)))
		return nil, nil, fmt.Errorf("channel %s: sample %d at t=%g: %w", c.name, i, times[i], core.ErrInvalidInputOrder)
	}

	if c.dec != nil {
		decTimes, decValues, err = c.dec.AddPoints(times, values)
		if err != nil {
			c.log.Warn("decimator rejected chunk", slog.Any("error", err))
			return nil, nil, fmt.Errorf("channel %s: %w", c.name, err)
		}
	}
	if err := c.buf.PushBatch(times, values); err != nil {
		return nil, nil, fmt.Errorf("channel %s: %w", c.name, err)
	}
	c.stats.AddBatch(values)
	if c.est != nil {
		c.est.AddSamples(values)
		if c.est.Ready() {
			c.log.Debug("spectrum frame due", slog.Int("fft_size", c.est.Size()))
		}
	}

	c.lastTime = times[len(times)-1]
	c.hasLast = true
	return decTimes, decValues, nil
}

// Flush closes the decimator's open bucket and returns its points.
func (c *Channel) Flush() (decTimes, decValues []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dec == nil {
		return nil, nil
	}
	return c.dec.Flush()
}

// Statistics returns the running statistics of every sample ingested since
// the last Reset.
func (c *Channel) Statistics() timestats.Summary {
	return c.stats.Statistics()
}

// Snapshot returns copies of the buffered times and values.
func (c *Channel) Snapshot() (times, values []float64) {
	return c.buf.Snapshot()
}

// SpectrumReady reports whether a new spectrum frame is due.
func (c *Channel) SpectrumReady() bool {
	return c.est != nil && c.est.Ready()
}

// Spectrum computes a frame over the most recent samples.
func (c *Channel) Spectrum(sampleRate float64, scale spectrum.Scale) (spectrum.Frame, error) {
	if c.est == nil {
		return spectrum.Frame{}, fmt.Errorf("channel %s: %w: %w", c.name, errSpectrumDisabled, core.ErrInvalidParameter)
	}
	frame, err := c.est.Compute(sampleRate, scale)
	if err != nil {
		return spectrum.Frame{}, fmt.Errorf("channel %s: %w", c.name, err)
	}
	c.log.Debug("spectrum computed", slog.Int("bins", len(frame.Values)), slog.Float64("bin_width", frame.BinWidth))
	return frame, nil
}

// Waveform measures the buffered samples.
func (c *Channel) Waveform() (waveform.Report, error) {
	times, values := c.buf.Snapshot()
	return c.waveform.Analyze(times, values)
}

// Quality scores the buffered samples.
func (c *Channel) Quality() (quality.Report, error) {
	times, values := c.buf.Snapshot()
	return c.quality.Analyze(times, values)
}

// Detect tests the buffered samples against kind. Frequencies are in Hz,
// using the mean sample rate of the buffer.
func (c *Channel) Detect(kind pattern.Kind) (pattern.Result, error) {
	times, values := c.buf.Snapshot()
	var opts []pattern.Option
	if n := len(times); n > 1 && times[n-1] > times[0] {
		opts = append(opts, pattern.WithSampleRate(float64(n-1)/(times[n-1]-times[0])))
	}
	return pattern.New(opts...).Detect(values, kind)
}

// Reset clears every component.
func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Clear()
	c.stats.Reset()
	if c.dec != nil {
		c.dec.Reset()
	}
	if c.est != nil {
		c.est.Reset()
	}
	c.hasLast = false
	c.log.Debug("channel reset")
}
