package frequency_test

import (
	"fmt"

	"github.com/cwbudde/algo-stream/stats/frequency"
)

func ExampleDescribe() {
	freqs := []float64{0, 10, 20, 30, 40}
	mag := []float64{0, 1, 4, 1, 0}

	d, err := frequency.Describe(freqs, mag)
	if err != nil {
		panic(err)
	}
	fmt.Printf("peak=%.0f centroid=%.0f rolloff=%.0f\n", d.PeakFrequency, d.Centroid, d.Rolloff)
	// Output: peak=20 centroid=20 rolloff=20
}
