// Package matching finds the best resume evidence for each job requirement
// and decides coverage. It is the single source of truth for requirement
// matching: both job-level and requirement-level paths route through it.
package matching

import (
	"fmt"

	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// tieEpsilon is the floating-point equality window for best-match ties.
// Within it the candidate with the lower ordinal (then the smaller ID)
// wins, so repeated runs over unordered input stay reproducible.
const tieEpsilon = 1e-9

// Matcher is the capability the pipeline depends on. The cosine-based
// implementation is the production path; tests substitute a fake rather
// than deriving from it.
type Matcher interface {
	MatchAll(requirements []types.RequirementUnit, evidence []types.EvidenceUnit) ([]types.RequirementMatchResult, error)
}

// CosineMatcher matches requirements to evidence by cosine similarity
// against a fixed threshold. Stateless and safe for concurrent use.
type CosineMatcher struct {
	Threshold float64
}

// NewCosineMatcher returns a matcher using the given similarity threshold.
func NewCosineMatcher(threshold float64) *CosineMatcher {
	return &CosineMatcher{Threshold: threshold}
}

// MatchRequirement matches one requirement against a pool of evidence
// candidates. It has no side effects and never mutates its inputs.
//
// A requirement without a usable embedding is uncovered with similarity 0;
// partial extraction failures upstream are expected and must degrade
// rather than abort. Evidence units without embeddings are skipped the
// same way. A dimension mismatch between requirement and evidence is an
// error, fatal for this single comparison.
func MatchRequirement(req types.RequirementUnit, pool []types.EvidenceUnit, threshold float64) (types.RequirementMatchResult, error) {
	result := types.RequirementMatchResult{
		RequirementID: req.ID,
		Kind:          req.Kind,
	}

	if req.Embedding.IsZero() {
		return result, nil
	}

	var (
		best    *types.EvidenceUnit
		bestSim float64
	)
	for i := range pool {
		ev := &pool[i]
		if ev.Embedding.IsZero() {
			continue
		}

		sim, err := similarity.Cosine(req.Embedding, ev.Embedding)
		if err != nil {
			return result, fmt.Errorf("requirement %s vs evidence %s: %w", req.ID, ev.ID, err)
		}

		if best == nil || better(sim, ev, bestSim, best) {
			best = ev
			bestSim = sim
		}
	}

	if best == nil {
		return result, nil
	}

	id := best.ID
	result.EvidenceID = &id
	result.Similarity = bestSim
	result.Covered = bestSim >= threshold
	return result, nil
}

// better decides whether a candidate should replace the current best.
// Similarities within tieEpsilon are treated as equal; the tie goes to the
// lower ordinal, then the lexicographically smaller ID.
func better(sim float64, ev *types.EvidenceUnit, bestSim float64, best *types.EvidenceUnit) bool {
	if sim > bestSim+tieEpsilon {
		return true
	}
	if sim < bestSim-tieEpsilon {
		return false
	}
	if ev.Ordinal != best.Ordinal {
		return ev.Ordinal < best.Ordinal
	}
	return ev.ID.String() < best.ID.String()
}

// MatchAll matches every requirement against the full evidence pool,
// returning one result per requirement in input order.
func MatchAll(requirements []types.RequirementUnit, pool []types.EvidenceUnit, threshold float64) ([]types.RequirementMatchResult, error) {
	results := make([]types.RequirementMatchResult, 0, len(requirements))
	for _, req := range requirements {
		res, err := MatchRequirement(req, pool, threshold)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// MatchAll implements Matcher.
func (m *CosineMatcher) MatchAll(requirements []types.RequirementUnit, evidence []types.EvidenceUnit) ([]types.RequirementMatchResult, error) {
	return MatchAll(requirements, evidence, m.Threshold)
}
