// Package types provides type definitions for structured data used throughout the job-scout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// EmbeddingVector is a fixed-length semantic embedding. Dimensionality is
// fixed per deployment (e.g. 768 or 1024) and must match between any two
// vectors being compared.
type EmbeddingVector []float64

// Dim returns the dimensionality of the vector.
func (v EmbeddingVector) Dim() int {
	return len(v)
}

// IsZero reports whether the vector is absent or has no components.
// A nil embedding means the upstream extractor failed to produce one;
// scoring treats it as zero similarity rather than an error.
func (v EmbeddingVector) IsZero() bool {
	return len(v) == 0
}

// Clone returns a copy of the vector. Scoring components never mutate
// their inputs; callers that need to modify a vector copy it first.
func (v EmbeddingVector) Clone() EmbeddingVector {
	if v == nil {
		return nil
	}
	out := make(EmbeddingVector, len(v))
	copy(out, v)
	return out
}
