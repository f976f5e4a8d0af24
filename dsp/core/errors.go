package core

import "errors"

// Error kinds reported by the analysis engine. Operations wrap one of these
// with context, so callers should match with errors.Is.
var (
	// ErrInsufficientData is returned when an operation needs more samples
	// than are available.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidInputOrder is returned when timestamps decrease.
	ErrInvalidInputOrder = errors.New("timestamps out of order")

	// ErrInvalidFFTSize is returned for FFT sizes that are not a positive
	// power of two.
	ErrInvalidFFTSize = errors.New("invalid fft size")

	// ErrUnsupportedPattern is returned for pattern kinds the detector does
	// not know.
	ErrUnsupportedPattern = errors.New("unsupported pattern")

	// ErrDegenerateSignal is returned when a zero-variance input makes a
	// ratio or normalization undefined.
	ErrDegenerateSignal = errors.New("degenerate signal")

	// ErrLengthMismatch is returned when paired time and value slices
	// differ in length.
	ErrLengthMismatch = errors.New("times and values length mismatch")

	// ErrInvalidParameter is returned for out-of-range configuration.
	ErrInvalidParameter = errors.New("invalid parameter")
)
