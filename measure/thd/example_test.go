package thd_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stream/measure/thd"
)

func ExampleAnalyze() {
	const fs = 1024.0
	values := make([]float64, 4096)
	for i := range values {
		t := float64(i) / fs
		values[i] = math.Sin(2*math.Pi*64*t) + 0.01*math.Sin(2*math.Pi*192*t)
	}

	res, err := thd.Analyze(values, fs)
	if err != nil {
		panic(err)
	}
	fmt.Printf("f0=%.0f Hz thd=%.2f%%\n", res.Fundamental, 100*res.THD)
	// Output: f0=64 Hz thd=1.00%
}
