// Package spectrum estimates the frequency content of a sample stream.
//
// [Estimator] keeps the most recent fftSize samples in a ring and turns them
// into a single-sided [Frame] on demand, reporting when a new hop of samples
// has arrived. [Welch] computes an averaged power spectral density over a
// finished capture, and [Goertzel] evaluates single frequencies without a
// full transform.
package spectrum
