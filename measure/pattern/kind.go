package pattern

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Kind names a waveform pattern the detector can test for.
type Kind int

const (
	Sine Kind = iota
	Square
)

// Kinds returns every supported pattern.
func Kinds() []Kind {
	return []Kind{Sine, Square}
}

// String returns "sine" or "square".
func (k Kind) String() string {
	switch k {
	case Sine:
		return "sine"
	case Square:
		return "square"
	default:
		return fmt.Sprintf("pattern(%d)", int(k))
	}
}

// Valid reports whether k is a supported pattern.
func (k Kind) Valid() bool {
	return k == Sine || k == Square
}

// ParseKind resolves a pattern name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin", "sinusoid":
		return Sine, nil
	case "square":
		return Square, nil
	}
	return 0, fmt.Errorf("pattern %q: %w", name, core.ErrUnsupportedPattern)
}

// MarshalText encodes the pattern name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
