package matching

import (
	"github.com/google/uuid"

	"github.com/jonathan/job-scout/internal/types"
)

// StaticMatcher is a Matcher test double that returns canned results by
// requirement ID. It exists so pipeline tests never need to build real
// embeddings; it deliberately does not embed or wrap CosineMatcher.
type StaticMatcher struct {
	Results map[uuid.UUID]types.RequirementMatchResult
	Err     error
}

// MatchAll implements Matcher.
func (s *StaticMatcher) MatchAll(requirements []types.RequirementUnit, _ []types.EvidenceUnit) ([]types.RequirementMatchResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	results := make([]types.RequirementMatchResult, 0, len(requirements))
	for _, req := range requirements {
		if res, ok := s.Results[req.ID]; ok {
			results = append(results, res)
			continue
		}
		results = append(results, types.RequirementMatchResult{
			RequirementID: req.ID,
			Kind:          req.Kind,
		})
	}
	return results, nil
}
