// Package biquad provides second-order IIR sections and cascades.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections are cascaded
// with [Chain]. Coefficient design lives in dsp/filter.
package biquad
