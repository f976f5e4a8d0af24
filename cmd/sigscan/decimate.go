package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stream/dsp/decimate"
)

type point struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

type decimateFlags struct {
	rate  float64
	chunk int
}

func (a *app) decimateCmd() *cobra.Command {
	var f decimateFlags
	cmd := &cobra.Command{
		Use:   "decimate FILE",
		Short: "Min/max decimate a capture for display",
		Long: "Decimate streams the capture through the min/max decimator in chunks " +
			"and writes the retained points as time,value CSV.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openCapture(args[0])
			if err != nil {
				return err
			}
			times, values, err := decimateCapture(c, f)
			if err != nil {
				return err
			}
			a.log.WithField("file", c.name).
				WithField("in", len(c.times)).
				WithField("out", len(times)).
				Debug("decimated")
			if a.flags.json {
				pts := make([]point, len(times))
				for i := range times {
					pts[i] = point{Time: times[i], Value: values[i]}
				}
				return writeJSON(cmd.OutOrStdout(), pts)
			}
			return writeCapture(cmd.OutOrStdout(), times, values)
		},
	}
	cmd.Flags().Float64Var(&f.rate, "rate", 100, "output buckets per second")
	cmd.Flags().IntVar(&f.chunk, "chunk", 4096, "points fed to the decimator per call")
	return cmd
}

func decimateCapture(c capture, f decimateFlags) ([]float64, []float64, error) {
	d, err := decimate.New(f.rate)
	if err != nil {
		return nil, nil, err
	}
	chunk := f.chunk
	if chunk <= 0 {
		chunk = len(c.times)
	}

	var outT, outV []float64
	for start := 0; start < len(c.times); start += chunk {
		end := min(start+chunk, len(c.times))
		t, v, err := d.AddPoints(c.times[start:end], c.values[start:end])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", c.name, err)
		}
		outT = append(outT, t...)
		outV = append(outV, v...)
	}
	t, v := d.Flush()
	return append(outT, t...), append(outV, v...), nil
}

// writeCapture writes time,value rows with a header, the format
// readCapture accepts.
func writeCapture(w io.Writer, times, values []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "value"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(values[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
