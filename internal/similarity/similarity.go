// Package similarity provides the numeric primitives every score in the
// system routes through: cosine similarity over embedding vectors, range
// clamping, and the [-1,1] -> [0,1] rescale.
//
// All externally supplied similarity values are clamped immediately on
// receipt, so an out-of-range provider value (e.g. 1.4) can never
// propagate into a score.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/job-scout/internal/types"
)

// ErrDimensionMismatch is returned when two vectors of different
// dimensionality are compared. Callers treat it as fatal for the single
// comparison, never for the whole batch.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Cosine returns the cosine similarity between a and b, in [-1, 1].
//
// If either vector has zero L2 norm the result is 0 rather than an error.
// This is a deliberate total-function policy: degenerate vectors are an
// expected upstream anomaly and must degrade to "no signal" instead of
// aborting a scoring run. Callers that care can detect it via IsDegenerate.
func Cosine(a, b types.EmbeddingVector) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	// Guard against floating-point drift pushing the result out of range.
	return Clamp(dot/(math.Sqrt(normA)*math.Sqrt(normB)), -1, 1), nil
}

// IsDegenerate reports whether a vector has zero L2 norm.
func IsDegenerate(v types.EmbeddingVector) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Clamp bounds x to [lo, hi]. Pure and idempotent.
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Clamp01 bounds x to [0, 1].
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Rescale01 maps a cosine similarity from [-1, 1] onto [0, 1], clamping
// out-of-range inputs.
func Rescale01(s float64) float64 {
	return Clamp01((s + 1) / 2)
}

// L2Normalize returns v scaled to unit length. A zero-norm vector is
// returned as an all-zero vector of the same dimension (total-function
// policy, consistent with Cosine).
func L2Normalize(v types.EmbeddingVector) types.EmbeddingVector {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	out := make(types.EmbeddingVector, len(v))
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
