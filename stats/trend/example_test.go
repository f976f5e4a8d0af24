package trend_test

import (
	"fmt"

	"github.com/cwbudde/algo-stream/stats/trend"
)

func ExampleFit() {
	times := []float64{0, 1, 2, 3}
	values := []float64{1, 3, 5, 7}

	line, err := trend.Fit(times, values)
	if err != nil {
		panic(err)
	}
	fmt.Printf("slope=%.1f intercept=%.1f r2=%.2f\n", line.Slope, line.Intercept, line.RSquared)

	// Output:
	// slope=2.0 intercept=1.0 r2=1.00
}
