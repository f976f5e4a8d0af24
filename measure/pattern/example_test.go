package pattern_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stream/measure/pattern"
)

func ExampleDetector_Detect() {
	values := make([]float64, 500)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * 10 * float64(i) / 500)
	}

	det := pattern.New(pattern.WithSampleRate(500))
	res, err := det.Detect(values, pattern.Sine)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%v detected=%v f=%.1f Hz A=%.2f\n", res.Kind, res.Detected, res.Frequency, res.Amplitude)

	// Output:
	// sine detected=true f=10.0 Hz A=1.00
}
