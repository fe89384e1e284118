// Package seq provides biological alphabets, digitized sequences and the
// read-only sequence blocks used as shared search targets.
package seq
