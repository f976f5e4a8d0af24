// Package decimate reduces the rate of a timestamped stream while keeping
// its local extrema.
//
// Uniform sub-sampling keeps every k-th point and silently drops spikes that
// fall between the kept points. The Decimator instead partitions time into
// buckets of width 1/targetRate and, when a bucket closes, emits the
// minimum and maximum samples it saw. Every emitted point is an observed
// sample, so true peak amplitude survives decimation.
package decimate
