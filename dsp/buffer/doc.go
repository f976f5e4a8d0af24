// Package buffer provides the fixed-capacity rolling sample store that backs
// a live acquisition channel. The store keeps the most recent N samples in
// arrival order and evicts the oldest one when a new sample arrives at
// capacity, so memory stays bounded however long a stream runs.
package buffer
