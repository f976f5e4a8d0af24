// Package frequency computes shape descriptors of single-sided spectra:
// peak, centroid, spread, flatness, rolloff and 3 dB bandwidth.
//
// Descriptors take explicit bin frequencies, so they apply equally to
// [spectrum.Frame] magnitudes and to Welch densities.
package frequency
