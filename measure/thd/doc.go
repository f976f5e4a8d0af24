// Package thd measures harmonic distortion of periodic captures from their
// single-sided spectrum.
//
// Component levels are the root-sum-square of the bins within a capture
// radius of the harmonic, which covers the main lobe of the analysis window.
// THD is the RSS of the harmonic levels relative to the fundamental; THD+N
// relates everything above DC except the fundamental.
package thd
