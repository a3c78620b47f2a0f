package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// CalculateWantScore measures alignment between the user's free-text
// preference embeddings and a job's facet embeddings, independent of
// requirement coverage.
//
// The unweighted aggregate lets any want match its best facet (row-wise
// max); the weighted aggregate is built from facet-wise means, so a facet
// never mentioned by any want still influences the score whenever its
// weight is nonzero. That is a deliberate design property, not a leak.
//
// A nil breakdown (no wants, or no facets with embeddings) means "no want
// score computed", which callers must not conflate with a score of 0.
func CalculateWantScore(wants []types.EmbeddingVector, facets []types.JobFacet, facetWeights map[string]float64) (*types.WantScoreBreakdown, error) {
	usable := orderFacets(facets)
	if len(wants) == 0 || len(usable) == 0 {
		return nil, nil
	}

	normedWants := make([]types.EmbeddingVector, len(wants))
	for i, w := range wants {
		normedWants[i] = similarity.L2Normalize(w)
	}
	normedFacets := make([]types.EmbeddingVector, len(usable))
	for j, f := range usable {
		normedFacets[j] = similarity.L2Normalize(f.Embedding)
	}

	// N×M rescaled similarity matrix.
	bestPerWant := make([]float64, len(wants))
	facetSums := make([]float64, len(usable))
	for i := range normedWants {
		best := 0.0
		for j := range normedFacets {
			s, err := similarity.Cosine(normedWants[i], normedFacets[j])
			if err != nil {
				return nil, fmt.Errorf("want %d vs facet %q: %w", i, usable[j].Key, err)
			}
			n := similarity.Rescale01(s)
			facetSums[j] += n
			if n > best {
				best = n
			}
		}
		bestPerWant[i] = best
	}

	var aggregate float64
	for _, b := range bestPerWant {
		aggregate += b
	}
	aggregate /= float64(len(bestPerWant))

	facetMeans := make([]float64, len(usable))
	for j := range facetSums {
		facetMeans[j] = facetSums[j] / float64(len(wants))
	}

	var weightSum, weightedSum float64
	contributions := make([]types.FacetContribution, 0, len(usable))
	for j, f := range usable {
		w := facetWeights[f.Key]
		weightSum += w
		weightedSum += facetMeans[j] * w
		if w > 0 {
			contributions = append(contributions, types.FacetContribution{
				Key:          f.Key,
				MeanScore:    facetMeans[j],
				Weight:       w,
				Contribution: facetMeans[j] * w,
			})
		}
	}

	// No facet weights configured: fall back to the unweighted aggregate.
	weighted := aggregate
	if weightSum > 0 {
		weighted = weightedSum / weightSum
	}

	return &types.WantScoreBreakdown{
		NumWants:          len(wants),
		NumFacets:         len(usable),
		BestPerWant:       bestPerWant,
		Aggregate:         aggregate,
		WeightedAggregate: weighted,
		Contributions:     contributions,
		// Step 3's clamp already floors every entry at 0, so only the
		// upper bound needs enforcing here.
		WantScore: math.Min(100, 100*weighted),
	}, nil
}

// orderFacets filters out facets without embeddings and returns the rest
// in a stable order: canonical keys first, then any extras in input order.
func orderFacets(facets []types.JobFacet) []types.JobFacet {
	present := make(map[string]types.JobFacet, len(facets))
	for _, f := range facets {
		if f.Embedding.IsZero() {
			continue
		}
		if _, dup := present[f.Key]; !dup {
			present[f.Key] = f
		}
	}

	ordered := make([]types.JobFacet, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, key := range types.FacetKeys {
		if f, ok := present[key]; ok {
			ordered = append(ordered, f)
			seen[key] = true
		}
	}
	for _, f := range facets {
		if f.Embedding.IsZero() || seen[f.Key] {
			continue
		}
		if stored, ok := present[f.Key]; ok {
			ordered = append(ordered, stored)
			seen[f.Key] = true
		}
	}
	return ordered
}
