package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// capture is one recorded time,value series. Times are seconds; ISO-8601
// stamps are converted to seconds since the first row.
type capture struct {
	name   string
	times  []float64
	values []float64
}

func (c capture) sampleRate() float64 {
	n := len(c.times)
	if n < 2 || !(c.times[n-1] > c.times[0]) {
		return 0
	}
	return float64(n-1) / (c.times[n-1] - c.times[0])
}

func openCapture(path string) (capture, error) {
	if path == "-" {
		return readCapture("stdin", os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return capture{}, err
	}
	defer f.Close()
	return readCapture(path, f)
}

func readCapture(name string, r io.Reader) (capture, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	c := capture{name: name}
	var origin time.Time
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return capture{}, fmt.Errorf("%s: %w", name, err)
		}
		if len(rec) < 2 {
			return capture{}, fmt.Errorf("%s: line %d: want time,value", name, row+1)
		}

		value, verr := parseValue(rec[1])
		t, terr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		if terr != nil {
			stamp, err := iso8601.ParseString(strings.TrimSpace(rec[0]))
			if err == nil {
				if origin.IsZero() {
					origin = stamp
				}
				t, terr = stamp.Sub(origin).Seconds(), nil
			}
		}
		if row == 0 && (terr != nil || verr != nil) {
			continue
		}
		if terr != nil {
			return capture{}, fmt.Errorf("%s: line %d: bad time %q", name, row+1, rec[0])
		}
		if verr != nil {
			return capture{}, fmt.Errorf("%s: line %d: bad value %q", name, row+1, rec[1])
		}
		c.times = append(c.times, t)
		c.values = append(c.values, value)
	}
	if len(c.times) == 0 {
		return capture{}, fmt.Errorf("%s: %w", name, core.ErrInsufficientData)
	}
	return c, nil
}

// parseValue accepts numbers plus the nan/inf spellings instruments emit.
func parseValue(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
