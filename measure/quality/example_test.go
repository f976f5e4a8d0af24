package quality_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stream/measure/quality"
)

func ExampleAnalyze() {
	times := make([]float64, 200)
	values := make([]float64, 200)
	for i := range values {
		times[i] = float64(i) / 100
		values[i] = math.Sin(2 * math.Pi * 5 * times[i])
	}
	values[42] = math.NaN()

	rep, err := quality.Analyze(times, values)
	if err != nil {
		panic(err)
	}
	fmt.Println(rep.Score, rep.Kinds())

	// Output:
	// 75 [non_finite]
}
