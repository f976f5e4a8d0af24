package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/signal"
)

type generateFlags struct {
	shape  string
	freq   float64
	amp    float64
	offset float64
	duty   float64
	noise  float64
	rate   float64
	n      int
	start  float64
	seed   int64
}

func (a *app) generateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic capture to stdout",
		Long: "Generate synthesizes a sine, square or ramp capture with optional " +
			"offset and seeded white noise, in the time,value format the other " +
			"commands read.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			times, values, err := generateCapture(f)
			if err != nil {
				return err
			}
			a.log.WithField("shape", f.shape).WithField("points", len(times)).Debug("generated")
			return writeCapture(cmd.OutOrStdout(), times, values)
		},
	}
	cmd.Flags().StringVar(&f.shape, "shape", "sine", "sine, square, ramp or noise")
	cmd.Flags().Float64Var(&f.freq, "freq", 50, "frequency in Hz (sine, square)")
	cmd.Flags().Float64Var(&f.amp, "amp", 1, "amplitude, or slope per second for ramp")
	cmd.Flags().Float64Var(&f.offset, "offset", 0, "constant added to every value")
	cmd.Flags().Float64Var(&f.duty, "duty", 0.5, "square duty cycle in (0, 1)")
	cmd.Flags().Float64Var(&f.noise, "noise", 0, "white noise amplitude")
	cmd.Flags().Float64Var(&f.rate, "rate", 1000, "sample rate in Hz")
	cmd.Flags().IntVarP(&f.n, "count", "n", 1000, "number of samples")
	cmd.Flags().Float64Var(&f.start, "start", 0, "first timestamp in seconds")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "noise seed")
	return cmd
}

func generateCapture(f generateFlags) ([]float64, []float64, error) {
	if !(f.rate > 0) {
		return nil, nil, fmt.Errorf("sample rate must be > 0: %v: %w", f.rate, core.ErrInvalidParameter)
	}
	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(f.rate)},
		signal.WithSeed(f.seed),
	)
	times, err := gen.Times(f.start, f.n)
	if err != nil {
		return nil, nil, err
	}

	var shape []float64
	switch f.shape {
	case "sine":
		shape, err = gen.Sine(f.freq, f.amp, f.n)
	case "square":
		shape, err = gen.Square(f.freq, f.amp, f.duty, f.n)
	case "ramp":
		shape, err = gen.Ramp(0, f.amp, f.n)
	case "noise":
		shape = make([]float64, f.n)
	default:
		return nil, nil, fmt.Errorf("shape %q: %w", f.shape, core.ErrUnsupportedPattern)
	}
	if err != nil {
		return nil, nil, err
	}

	parts := [][]float64{shape}
	if f.noise > 0 {
		noise, err := gen.WhiteNoise(f.noise, f.n)
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, noise)
	}
	values, err := signal.Add(parts...)
	if err != nil {
		return nil, nil, err
	}
	for i := range values {
		values[i] += f.offset
	}
	return times, values, nil
}
