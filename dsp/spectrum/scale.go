package spectrum

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Scale selects how bin values of a [Frame] are expressed.
type Scale int

const (
	// ScaleMagnitude is single-sided amplitude: a sine of amplitude A on a
	// bin centre reads A.
	ScaleMagnitude Scale = iota
	// ScalePower is the square of ScaleMagnitude.
	ScalePower
)

// String returns "magnitude" or "power".
func (s Scale) String() string {
	switch s {
	case ScaleMagnitude:
		return "magnitude"
	case ScalePower:
		return "power"
	default:
		return fmt.Sprintf("scale(%d)", int(s))
	}
}

// ParseScale resolves "magnitude" or "power".
func ParseScale(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "magnitude", "mag", "":
		return ScaleMagnitude, nil
	case "power", "pow":
		return ScalePower, nil
	}
	return 0, fmt.Errorf("spectrum scale %q: %w", name, core.ErrInvalidParameter)
}
