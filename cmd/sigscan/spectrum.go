package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/spectrum"
	"github.com/cwbudde/algo-stream/dsp/window"
	"github.com/cwbudde/algo-stream/stats/frequency"
)

type spectrumFlags struct {
	size    int
	window  string
	overlap float64
	scale   string
	rate    float64
	welch   bool
	top     int
}

// spectrumReport is the printable form of a Frame or PSD.
type spectrumReport struct {
	File     string    `json:"file"`
	Method   string    `json:"method"`
	Window   string    `json:"window"`
	Scale    string    `json:"scale"`
	BinWidth float64   `json:"bin_width"`
	Peak     float64   `json:"peak_frequency"`
	Freqs    []float64 `json:"freqs"`
	Values   []float64 `json:"values"`

	Descriptors *frequency.Descriptors `json:"descriptors,omitempty"`
}

func (a *app) spectrumCmd() *cobra.Command {
	var f spectrumFlags
	cmd := &cobra.Command{
		Use:   "spectrum FILE",
		Short: "Single-sided spectrum of the latest window, or a Welch PSD",
		Long: "Spectrum streams the capture through the FFT estimator and prints the " +
			"spectrum of the most recent window. With --welch it averages " +
			"overlapping segments into a power spectral density instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCapture(args[0])
			if err != nil {
				return err
			}
			rep, err := a.computeSpectrum(c, f)
			if err != nil {
				return err
			}
			if a.flags.json {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return printSpectrum(cmd.OutOrStdout(), rep, f.top)
		},
	}
	cmd.Flags().IntVar(&f.size, "size", 1024, "FFT size, a power of two")
	cmd.Flags().StringVar(&f.window, "window", "hann", "window function (rectangular, hann, hamming, blackman)")
	cmd.Flags().Float64Var(&f.overlap, "overlap", 0.5, "segment overlap in [0, 1)")
	cmd.Flags().StringVar(&f.scale, "scale", "magnitude", "output scale (magnitude, power); ignored with --welch")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "sample rate in Hz (default: estimated from timestamps)")
	cmd.Flags().BoolVar(&f.welch, "welch", false, "print a Welch power spectral density")
	cmd.Flags().IntVar(&f.top, "top", 0, "print only the N largest bins")
	return cmd
}

func (a *app) computeSpectrum(c capture, f spectrumFlags) (spectrumReport, error) {
	win, err := window.ParseType(f.window)
	if err != nil {
		return spectrumReport{}, err
	}
	rate := f.rate
	if rate <= 0 {
		rate = c.sampleRate()
	}
	if !(rate > 0) {
		return spectrumReport{}, fmt.Errorf("%s: cannot estimate sample rate: %w", c.name, core.ErrInvalidParameter)
	}
	values := core.Finite(c.values)
	log := a.log.WithField("file", c.name)

	if f.welch {
		psd, err := spectrum.Welch(values, rate, f.size, win, f.overlap)
		if err != nil {
			return spectrumReport{}, err
		}
		log.WithField("segments", psd.Segments).Debug("welch psd")
		rep := spectrumReport{
			File:     c.name,
			Method:   "welch",
			Window:   win.String(),
			Scale:    "density",
			BinWidth: rate / float64(f.size),
			Peak:     peakOf(psd.Freqs, psd.Density),
			Freqs:    psd.Freqs,
			Values:   psd.Density,
		}
		amp := make([]float64, len(psd.Density))
		for i, v := range psd.Density {
			amp[i] = math.Sqrt(math.Max(v, 0))
		}
		rep.Descriptors = describe(psd.Freqs, amp, log)
		return rep, nil
	}

	scale, err := spectrum.ParseScale(f.scale)
	if err != nil {
		return spectrumReport{}, err
	}
	est, err := spectrum.NewEstimator(f.size, spectrum.WithWindow(win), spectrum.WithOverlap(f.overlap))
	if err != nil {
		return spectrumReport{}, err
	}
	est.AddSamples(values)
	frame, err := est.Compute(rate, scale)
	if err != nil {
		return spectrumReport{}, err
	}
	peak, _ := frame.PeakFrequency()
	log.WithField("bin_width", frame.BinWidth).Debug("spectrum frame")
	var desc *frequency.Descriptors
	if d, err := frequency.DescribeFrame(frame); err == nil {
		desc = &d
	} else {
		log.WithError(err).Debug("descriptors skipped")
	}
	return spectrumReport{
		File:     c.name,
		Method:   "fft",
		Window:   frame.Window.String(),
		Scale:    frame.Scale.String(),
		BinWidth: frame.BinWidth,
		Peak:     peak,
		Freqs:    frame.Freqs,
		Values:   frame.Values,

		Descriptors: desc,
	}, nil
}

func describe(freqs, magnitude []float64, log logrus.FieldLogger) *frequency.Descriptors {
	d, err := frequency.Describe(freqs, magnitude)
	if err != nil {
		log.WithError(err).Debug("descriptors skipped")
		return nil
	}
	return &d
}

// peakOf returns the frequency of the largest bin above DC.
func peakOf(freqs, values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	best := 1
	for k := 2; k < len(values); k++ {
		if values[k] > values[best] {
			best = k
		}
	}
	return freqs[best]
}

func printSpectrum(w io.Writer, rep spectrumReport, top int) error {
	order := make([]int, len(rep.Values))
	for i := range order {
		order[i] = i
	}
	if top > 0 {
		sort.SliceStable(order, func(i, j int) bool {
			return rep.Values[order[i]] > rep.Values[order[j]]
		})
		if top < len(order) {
			order = order[:top]
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s %s window=%s scale=%s df=%.6g Hz peak=%.6g Hz\n",
		rep.File, rep.Method, rep.Window, rep.Scale, rep.BinWidth, rep.Peak)
	if d := rep.Descriptors; d != nil {
		fmt.Fprintf(tw, "# centroid=%.6g Hz spread=%.6g Hz flatness=%.4f rolloff=%.6g Hz bw3dB=%.6g Hz\n",
			d.Centroid, d.Spread, d.Flatness, d.Rolloff, d.Bandwidth)
	}
	fmt.Fprintf(tw, "Freq [Hz]\tValue\n")
	for _, k := range order {
		fmt.Fprintf(tw, "%.6g\t%.6g\n", rep.Freqs[k], rep.Values[k])
	}
	return tw.Flush()
}
