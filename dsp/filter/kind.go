package filter

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-stream/dsp/core"
)

// Kind is the filter response shape.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop
)

var kindNames = [...]string{"lowpass", "highpass", "bandpass", "bandstop"}

// String returns the lower-case name.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is a known shape.
func (k Kind) Valid() bool {
	return k >= Lowpass && k <= Bandstop
}

// Band reports whether the shape needs two corner frequencies.
func (k Kind) Band() bool {
	return k == Bandpass || k == Bandstop
}

// ParseKind resolves names such as "lowpass", "lp" or "band-stop".
func ParseKind(name string) (Kind, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	switch key {
	case "lowpass", "lp", "low":
		return Lowpass, nil
	case "highpass", "hp", "high":
		return Highpass, nil
	case "bandpass", "bp":
		return Bandpass, nil
	case "bandstop", "bs", "notch":
		return Bandstop, nil
	}
	return 0, fmt.Errorf("filter kind %q: %w", name, core.ErrInvalidParameter)
}
