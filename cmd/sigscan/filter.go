package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stream/dsp/core"
	"github.com/cwbudde/algo-stream/dsp/filter"
)

type filterFlags struct {
	kind    string
	order   int
	low     float64
	high    float64
	rate    float64
	causal  bool
	impulse int
}

func (a *app) filterCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "filter [FILE]",
		Short: "Butterworth-filter a capture",
		Long: "Filter designs a Butterworth lowpass, highpass, bandpass or bandstop " +
			"filter and applies it forward and backward for zero phase shift, " +
			"writing the filtered capture as time,value CSV. Non-finite samples " +
			"are dropped first. With --impulse the designed filter's impulse " +
			"response is written instead; FILE then only supplies the sample rate.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.impulse > 0 {
				return a.writeImpulse(cmd, args, f)
			}
			if len(args) == 0 {
				return fmt.Errorf("filter needs a capture file: %w", core.ErrInvalidParameter)
			}
			c, err := openCapture(args[0])
			if err != nil {
				return err
			}
			times, values, err := a.filterCapture(c, f)
			if err != nil {
				return err
			}
			return writeCapture(cmd.OutOrStdout(), times, values)
		},
	}
	cmd.Flags().StringVar(&f.kind, "kind", "lowpass", "lowpass, highpass, bandpass or bandstop")
	cmd.Flags().IntVar(&f.order, "order", 4, "prototype order")
	cmd.Flags().Float64Var(&f.low, "cutoff", 0, "corner frequency in Hz, the lower corner for band filters")
	cmd.Flags().Float64Var(&f.high, "high", 0, "upper corner in Hz for band filters")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "sample rate in Hz (default: estimated from timestamps)")
	cmd.Flags().BoolVar(&f.causal, "causal", false, "single forward pass instead of zero phase")
	cmd.Flags().IntVar(&f.impulse, "impulse", 0, "write this many samples of the impulse response instead of filtering")
	_ = cmd.MarkFlagRequired("cutoff")
	return cmd
}

func (a *app) writeImpulse(cmd *cobra.Command, args []string, f filterFlags) error {
	rate := f.rate
	if rate <= 0 && len(args) == 1 {
		c, err := openCapture(args[0])
		if err != nil {
			return err
		}
		times, _ := finitePoints(c.times, c.values)
		rate = capture{times: times}.sampleRate()
	}
	if !(rate > 0) {
		return fmt.Errorf("impulse response needs --rate or a capture: %w", core.ErrInvalidParameter)
	}
	kind, err := filter.ParseKind(f.kind)
	if err != nil {
		return err
	}
	flt, err := filter.New(filter.Spec{Kind: kind, Order: f.order, Low: f.low, High: f.high, SampleRate: rate})
	if err != nil {
		return err
	}
	ir := flt.ImpulseResponse(f.impulse)
	times := make([]float64, len(ir))
	for i := range times {
		times[i] = float64(i) / rate
	}
	a.log.WithField("samples", len(ir)).Debug("impulse response computed")
	return writeCapture(cmd.OutOrStdout(), times, ir)
}

func (a *app) filterCapture(c capture, f filterFlags) ([]float64, []float64, error) {
	kind, err := filter.ParseKind(f.kind)
	if err != nil {
		return nil, nil, err
	}
	times, values := finitePoints(c.times, c.values)
	if dropped := len(c.times) - len(times); dropped > 0 {
		a.log.WithField("file", c.name).WithField("dropped", dropped).Warn("non-finite samples dropped before filtering")
	}
	rate := f.rate
	if rate <= 0 {
		rate = capture{times: times}.sampleRate()
	}
	if !(rate > 0) {
		return nil, nil, fmt.Errorf("%s: cannot estimate sample rate: %w", c.name, core.ErrInvalidParameter)
	}

	flt, err := filter.New(filter.Spec{Kind: kind, Order: f.order, Low: f.low, High: f.high, SampleRate: rate})
	if err != nil {
		return nil, nil, err
	}
	a.log.WithField("spec", fmt.Sprintf("%+v", flt.Spec())).Debug("filter designed")

	if f.causal {
		values, err = flt.Apply(values)
	} else {
		values, err = flt.FiltFilt(values)
	}
	return times, values, err
}
