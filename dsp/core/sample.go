package core

import (
	"fmt"
	"math"
)

// Sample is one timestamped reading. Time is in seconds on a monotonic
// clock; only ordering and differences are meaningful.
type Sample struct {
	Time  float64
	Value float64
}

// Optional carries a numeric result that may be undefined, such as the
// crest factor of a flat signal. An invalid Optional must not be read as 0.
type Optional struct {
	Value float64
	Valid bool
}

// Some returns a defined Optional.
func Some(v float64) Optional {
	return Optional{Value: v, Valid: true}
}

// Undefined returns an Optional with no value.
func Undefined() Optional {
	return Optional{}
}

// Get returns the value and whether it is defined.
func (o Optional) Get() (float64, bool) {
	return o.Value, o.Valid
}

// Or returns the value, or fallback when undefined.
func (o Optional) Or(fallback float64) float64 {
	if !o.Valid {
		return fallback
	}
	return o.Value
}

// String formats the value, or "n/a" when undefined.
func (o Optional) String() string {
	if !o.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%g", o.Value)
}

// MarshalJSON encodes an undefined value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Valid || math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%g", o.Value)), nil
}

// CheckPairs validates that times and values describe the same samples.
func CheckPairs(times, values []float64) error {
	if len(times) != len(values) {
		return fmt.Errorf("%w: %d times, %d values", ErrLengthMismatch, len(times), len(values))
	}
	return nil
}

// CheckOrder returns the index of the first timestamp that is smaller than
// its predecessor (or than prev for index 0), or -1 when times is
// non-decreasing. NaN timestamps are reported as out of order.
func CheckOrder(prev float64, times []float64) int {
	last := prev
	for i, t := range times {
		if math.IsNaN(t) || t < last {
			return i
		}
		last = t
	}
	return -1
}
