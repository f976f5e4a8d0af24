package filter_test

import (
	"fmt"

	"github.com/cwbudde/algo-stream/dsp/filter"
)

func ExampleNew() {
	f, err := filter.New(filter.Spec{
		Kind:       filter.Lowpass,
		Order:      4,
		Low:        100,
		SampleRate: 1000,
	})
	if err != nil {
		panic(err)
	}
	fmt.Printf("sections=%d corner=%.2f dB\n", len(f.Sections()), f.MagnitudeDB(100))
	// Output: sections=2 corner=-3.01 dB
}
