package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

func TestCalculateWantScore_SingleWantSingleFacet(t *testing.T) {
	want := types.EmbeddingVector{1, 0}
	facet := types.JobFacet{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{0.6, 0.8}}
	weights := map[string]float64{types.FacetTechStack: 1}

	breakdown, err := CalculateWantScore([]types.EmbeddingVector{want}, []types.JobFacet{facet}, weights)

	require.NoError(t, err)
	require.NotNil(t, breakdown)

	// cos(w, f) = 0.6, rescaled = 0.8, score = 100 * 0.8.
	cos, err := similarity.Cosine(similarity.L2Normalize(want), similarity.L2Normalize(facet.Embedding))
	require.NoError(t, err)
	expected := 100 * similarity.Clamp01((cos+1)/2)

	assert.InDelta(t, expected, breakdown.WantScore, 1e-9)
	assert.InDelta(t, 80.0, breakdown.WantScore, 1e-9)
}

func TestCalculateWantScore_WeightedUsesFacetMeansNotPerWantWinner(t *testing.T) {
	// Want 1 is won by facet A outright; want 2 is won by facet B. Facet A
	// has the higher mean, but all weight sits on facet B, so the weighted
	// score must reflect B's mean, not the per-want winners.
	w1 := types.EmbeddingVector{1, 0}
	w2 := types.EmbeddingVector{0.6, 0.8}
	facetA := types.JobFacet{Key: types.FacetCompensation, Embedding: types.EmbeddingVector{1, 0}}
	facetB := types.JobFacet{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{0, 1}}
	weights := map[string]float64{types.FacetTechStack: 1}

	breakdown, err := CalculateWantScore(
		[]types.EmbeddingVector{w1, w2},
		[]types.JobFacet{facetA, facetB},
		weights,
	)

	require.NoError(t, err)
	require.NotNil(t, breakdown)

	// Rescaled matrix: w1 = [1.0, 0.5], w2 = [0.8, 0.9].
	// Facet means: A = 0.9, B = 0.7. Per-want best: [1.0, 0.9], A = 0.95.
	assert.InDelta(t, 0.95, breakdown.Aggregate, 1e-9)
	assert.InDelta(t, 0.7, breakdown.WeightedAggregate, 1e-9)
	assert.InDelta(t, 70.0, breakdown.WantScore, 1e-9)
}

func TestCalculateWantScore_UnmentionedFacetStillInfluences(t *testing.T) {
	// The single want aligns perfectly with facet A and ignores facet B,
	// but B carries weight, so it drags the weighted score down.
	want := types.EmbeddingVector{1, 0}
	facetA := types.JobFacet{Key: types.FacetCompensation, Embedding: types.EmbeddingVector{1, 0}}
	facetB := types.JobFacet{Key: types.FacetVisaSponsorship, Embedding: types.EmbeddingVector{0, 1}}

	onlyA, err := CalculateWantScore([]types.EmbeddingVector{want}, []types.JobFacet{facetA, facetB},
		map[string]float64{types.FacetCompensation: 1})
	require.NoError(t, err)

	both, err := CalculateWantScore([]types.EmbeddingVector{want}, []types.JobFacet{facetA, facetB},
		map[string]float64{types.FacetCompensation: 1, types.FacetVisaSponsorship: 1})
	require.NoError(t, err)

	assert.InDelta(t, 100.0, onlyA.WantScore, 1e-9)
	assert.InDelta(t, 75.0, both.WantScore, 1e-9) // mean of 1.0 and 0.5
}

func TestCalculateWantScore_ZeroWeightsFallBackToUnweighted(t *testing.T) {
	want := types.EmbeddingVector{1, 0}
	facets := []types.JobFacet{
		{Key: types.FacetCompensation, Embedding: types.EmbeddingVector{1, 0}},
		{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{0, 1}},
	}

	breakdown, err := CalculateWantScore([]types.EmbeddingVector{want}, facets, nil)

	require.NoError(t, err)
	require.NotNil(t, breakdown)
	assert.Equal(t, breakdown.Aggregate, breakdown.WeightedAggregate)
	assert.Empty(t, breakdown.Contributions)
}

func TestCalculateWantScore_NoWants(t *testing.T) {
	facets := []types.JobFacet{
		{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{1, 0}},
	}

	breakdown, err := CalculateWantScore(nil, facets, nil)

	require.NoError(t, err)
	assert.Nil(t, breakdown, "no wants means no want score, not a zero score")
}

func TestCalculateWantScore_NoFacets(t *testing.T) {
	wants := []types.EmbeddingVector{{1, 0}}

	breakdown, err := CalculateWantScore(wants, nil, nil)

	require.NoError(t, err)
	assert.Nil(t, breakdown)
}

func TestCalculateWantScore_FacetsWithoutEmbeddingsExcluded(t *testing.T) {
	wants := []types.EmbeddingVector{{1, 0}}
	facets := []types.JobFacet{
		{Key: types.FacetTechStack}, // no embedding
	}

	breakdown, err := CalculateWantScore(wants, facets, nil)

	require.NoError(t, err)
	assert.Nil(t, breakdown)
}

func TestCalculateWantScore_DimensionMismatch(t *testing.T) {
	wants := []types.EmbeddingVector{{1, 0, 0}}
	facets := []types.JobFacet{
		{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{1, 0}},
	}

	_, err := CalculateWantScore(wants, facets, nil)

	assert.ErrorIs(t, err, similarity.ErrDimensionMismatch)
}

func TestCalculateWantScore_BoundedAboveByHundred(t *testing.T) {
	wants := []types.EmbeddingVector{{1, 0}, {1, 0}}
	facets := []types.JobFacet{
		{Key: types.FacetTechStack, Embedding: types.EmbeddingVector{1, 0}},
	}

	breakdown, err := CalculateWantScore(wants, facets, map[string]float64{types.FacetTechStack: 5})

	require.NoError(t, err)
	assert.LessOrEqual(t, breakdown.WantScore, 100.0)
	assert.GreaterOrEqual(t, breakdown.WantScore, 0.0)
}

func TestCombineOverall(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.FitWeight = 0.6
	cfg.WantWeight = 0.4

	want := 50.0
	overall := CombineOverall(80, &want, cfg)
	assert.InDelta(t, 68.0, overall, 1e-9)
}

func TestCombineOverall_AbsentWantFallsBackToFit(t *testing.T) {
	cfg := config.DefaultScoringConfig()

	overall := CombineOverall(73.5, nil, cfg)

	assert.Equal(t, 73.5, overall)
}

func TestCombineOverall_CappedAtHundred(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.FitWeight = 1
	cfg.WantWeight = 1

	want := 100.0
	overall := CombineOverall(100, &want, cfg)

	assert.Equal(t, 100.0, overall)
}
