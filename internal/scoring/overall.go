package scoring

import (
	"math"

	"github.com/jonathan/job-scout/internal/config"
)

// CombineOverall blends the Fit and Want scores into a single 0-100
// ranking value. When no want score was computed (no preferences
// supplied), the overall score is just the fit score rather than treating
// the missing want as zero.
func CombineOverall(fitScore float64, wantScore *float64, cfg *config.ScoringConfig) float64 {
	if wantScore == nil {
		return fitScore
	}
	return math.Min(100, cfg.FitWeight*fitScore+cfg.WantWeight*(*wantScore))
}
