// Package filter designs Butterworth lowpass, highpass, bandpass and
// bandstop filters as biquad cascades and applies them to captures, either
// causally or forward-backward for zero phase.
//
// Designs use the analog Butterworth prototype, the classical frequency
// transformations and the bilinear transform with pre-warped corner
// frequencies, so every corner sits exactly at -3 dB. Bandpass and bandstop
// designs of order N have 2N poles.
package filter
