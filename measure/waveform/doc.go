// Package waveform measures the shape of a captured signal: moments, crest
// factor, zero crossings, peaks and edge timing.
//
// Results that have no meaning for a given input, such as the crest factor
// of a flat line or the rise time of a signal with no rising edge, are
// reported as an undefined [core.Optional] rather than as zero.
package waveform
