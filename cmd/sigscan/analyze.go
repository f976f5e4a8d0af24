package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/measure/pattern"
	"github.com/cwbudde/algo-stream/measure/quality"
	"github.com/cwbudde/algo-stream/measure/thd"
	"github.com/cwbudde/algo-stream/measure/waveform"
	"github.com/cwbudde/algo-stream/stats/trend"
)

// fileReport is the full analysis of one capture.
type fileReport struct {
	File       string                            `json:"file"`
	SampleRate float64                           `json:"sample_rate"`
	Waveform   waveform.Report                   `json:"waveform"`
	Quality    quality.Report                    `json:"quality"`
	Patterns   map[pattern.Kind]*pattern.Result `json:"patterns"`
	Distortion *thd.Result                       `json:"distortion,omitempty"`
	Trend      *trend.Line                       `json:"trend,omitempty"`
}

type analyzeFlags struct {
	minPeakDistance int
	rangeLo         float64
	rangeHi         float64
	jobs            int
}

func (a *app) analyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Waveform, quality, pattern, distortion and trend report per capture",
		Long: "Analyze reads each capture and prints its waveform measurements, " +
			"quality score, sine and square pattern results, harmonic distortion " +
			"and linear trend. " +
			"Files are processed concurrently.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := a.analyzeFiles(cmd, args, f)
			if err != nil {
				return err
			}
			if a.flags.json {
				return writeJSON(cmd.OutOrStdout(), reports)
			}
			return printReports(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().IntVar(&f.minPeakDistance, "min-peak-distance", 0, "minimum samples between reported peaks (default: 1% of the capture)")
	cmd.Flags().Float64Var(&f.rangeLo, "range-lo", 0, "lower rail of the instrument range (with --range-hi)")
	cmd.Flags().Float64Var(&f.rangeHi, "range-hi", 0, "upper rail of the instrument range (with --range-lo)")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "files analyzed in parallel")
	return cmd
}

func (a *app) analyzeFiles(cmd *cobra.Command, paths []string, f analyzeFlags) ([]fileReport, error) {
	var wopts []waveform.Option
	if cmd.Flags().Changed("min-peak-distance") {
		wopts = append(wopts, waveform.WithMinPeakDistance(f.minPeakDistance))
	}
	wave := waveform.New(wopts...)
	var qopts []quality.Option
	if cmd.Flags().Changed("range-lo") || cmd.Flags().Changed("range-hi") {
		qopts = append(qopts, quality.WithRange(f.rangeLo, f.rangeHi))
	}
	qual := quality.New(qopts...)

	reports := make([]fileReport, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	if f.jobs > 0 {
		g.SetLimit(f.jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := openCapture(path)
			if err != nil {
				return err
			}
			log := a.log.WithFields(logrus.Fields{"file": path, "points": len(c.times)})
			log.Debug("read capture")

			rep, err := analyzeCapture(c, wave, qual, log)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func analyzeCapture(c capture, wave *waveform.Analyzer, qual *quality.Analyzer, log logrus.FieldLogger) (fileReport, error) {
	rep := fileReport{
		File:       c.name,
		SampleRate: c.sampleRate(),
		Patterns:   make(map[pattern.Kind]*pattern.Result, len(pattern.Kinds())),
	}

	q, err := qual.Analyze(c.times, c.values)
	if err != nil {
		return rep, err
	}
	rep.Quality = q

	w, err := wave.Analyze(c.times, c.values)
	switch {
	case errors.Is(err, core.ErrInsufficientData):
		log.WithError(err).Warn("waveform skipped")
	case err != nil:
		return rep, err
	default:
		rep.Waveform = w
	}

	det := pattern.New(pattern.WithSampleRate(rep.SampleRate))
	for _, kind := range pattern.Kinds() {
		res, err := det.Detect(c.values, kind)
		if err != nil {
			log.WithError(err).WithField("pattern", kind).Debug("pattern skipped")
			rep.Patterns[kind] = nil
			continue
		}
		rep.Patterns[kind] = &res
	}

	if res, err := thd.Analyze(c.values, rep.SampleRate); err == nil {
		rep.Distortion = &res
	} else {
		log.WithError(err).Debug("distortion skipped")
	}

	times, values := finitePoints(c.times, c.values)
	if line, err := trend.Fit(times, values); err == nil {
		rep.Trend = &line
	} else {
		log.WithError(err).Debug("trend skipped")
	}
	return rep, nil
}

func finitePoints(times, values []float64) ([]float64, []float64) {
	ft := make([]float64, 0, len(times))
	fv := make([]float64, 0, len(values))
	for i := range times {
		if core.IsFinite(times[i]) && core.IsFinite(values[i]) {
			ft = append(ft, times[i])
			fv = append(fv, values[i])
		}
	}
	return ft, fv
}

func printReports(w io.Writer, reports []fileReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "File\t%s\n", r.File)
		fmt.Fprintf(tw, "Points\t%d\n", r.Quality.TotalPoints)
		fmt.Fprintf(tw, "Sample rate [Hz]\t%.4g\n", r.SampleRate)
		fmt.Fprintf(tw, "Quality\t%.0f %v\n", r.Quality.Score, r.Quality.Kinds())

		wf := r.Waveform
		fmt.Fprintf(tw, "Mean / Std\t%.6g / %.6g\n", wf.Mean, wf.Std)
		fmt.Fprintf(tw, "Min / Max\t%.6g / %.6g\n", wf.Min, wf.Max)
		fmt.Fprintf(tw, "RMS / AC RMS\t%.6g / %.6g\n", wf.RMS, wf.ACRMS)
		fmt.Fprintf(tw, "Crest factor\t%v\n", wf.CrestFactor)
		fmt.Fprintf(tw, "Skewness / Kurtosis\t%v / %v\n", wf.Skewness, wf.Kurtosis)
		fmt.Fprintf(tw, "Zero crossings\t%d (f ~ %v Hz)\n", wf.ZeroCrossings, wf.EstimatedFrequency)
		fmt.Fprintf(tw, "Peaks\t%d\n", wf.NumPeaks)
		fmt.Fprintf(tw, "Rise / Fall [s]\t%v / %v\n", wf.RiseTime, wf.FallTime)

		for _, kind := range pattern.Kinds() {
			res := r.Patterns[kind]
			if res == nil {
				fmt.Fprintf(tw, "Pattern %s\tn/a\n", kind)
				continue
			}
			fmt.Fprintf(tw, "Pattern %s\tdetected=%t confidence=%.3f f=%.4g Hz A=%.4g\n",
				kind, res.Detected, res.Confidence, res.Frequency, res.Amplitude)
		}
		if d := r.Distortion; d != nil {
			fmt.Fprintf(tw, "THD\t%.3f%% (f0=%.4g Hz, THD+N %.3f%%)\n", 100*d.THD, d.Fundamental, 100*d.THDN)
		}
		if r.Trend != nil {
			fmt.Fprintf(tw, "Trend\tslope=%.6g/s r2=%.3f\n", r.Trend.Slope, r.Trend.RSquared)
		}
	}
	return tw.Flush()
}
