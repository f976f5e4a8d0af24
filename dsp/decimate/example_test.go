package decimate_test

import (
	"fmt"

	"github.com/cwbudde/algo-stream/dsp/decimate"
)

func ExampleDecimator() {
	d, _ := decimate.New(2) // two buckets per second

	times := []float64{0, 0.1, 0.2, 0.3, 0.6, 0.7, 0.8, 1.0}
	values := []float64{0, 9, -3, 1, 2, 2, 2, 5}

	outT, outV, _ := d.AddPoints(times, values)
	fmt.Println(outT, outV)

	outT, outV = d.Flush()
	fmt.Println(outT, outV)

	// Output:
	// [0.1 0.2 0.6] [9 -3 2]
	// [1] [5]
}
