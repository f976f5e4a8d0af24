// Package trend provides whole-capture helpers for slow drift and
// distribution questions: linear trend fits, correlation between channels,
// histograms, smoothing, numerical derivative and integral, and uniform
// resampling.
//
// All functions take paired time and value slices where time matters and
// report misuse through the error kinds in dsp/core.
package trend
