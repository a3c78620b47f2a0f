package similarity

import (
	"fmt"

	"github.com/jonathan/job-scout/internal/types"
)

// WeightedMean pools vectors into a single vector using per-vector
// weights: r = (Σ w_i * v_i) / Σ w_i. Vectors must share one
// dimensionality. If every weight is zero the result is the zero vector.
func WeightedMean(vectors []types.EmbeddingVector, weights []float64) (types.EmbeddingVector, error) {
	if len(vectors) != len(weights) {
		return nil, fmt.Errorf("weighted mean: %d vectors but %d weights", len(vectors), len(weights))
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("weighted mean: no vectors")
	}

	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has dim %d, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}

	out := make(types.EmbeddingVector, dim)
	var weightSum float64
	for i, v := range vectors {
		w := weights[i]
		weightSum += w
		for d := range v {
			out[d] += v[d] * w
		}
	}
	if weightSum == 0 {
		return make(types.EmbeddingVector, dim), nil
	}
	for d := range out {
		out[d] /= weightSum
	}
	return out, nil
}

// Mean pools vectors with equal weight.
func Mean(vectors []types.EmbeddingVector) (types.EmbeddingVector, error) {
	weights := make([]float64, len(vectors))
	for i := range weights {
		weights[i] = 1
	}
	return WeightedMean(vectors, weights)
}
