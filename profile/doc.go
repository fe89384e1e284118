// Package profile provides position-specific scoring profiles: the Model
// representation, its flattened Optimized form used during scoring, the
// read-only Block of optimized profiles used as scan targets, and the
// Builder that turns sequences and alignments into models.
package profile
