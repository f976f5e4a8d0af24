package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-stream/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(250))
	fmt.Printf("sampleRate=%.0f\n", cfg.SampleRate)

	// Output:
	// sampleRate=250
}

func ExampleOptional() {
	crest := core.Undefined()
	fmt.Println(crest)
	fmt.Println(core.Some(1.5))

	// Output:
	// n/a
	// 1.5
}
