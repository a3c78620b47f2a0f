package scoring

import (
	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// CalculateFitScore combines job-level similarity, requirement coverage,
// the preferred bonus, and the missing-required penalty into the bounded
// 0-100 Fit Score ("can do the job").
//
// The preferred bonus is additive only: preferred items can help but never
// hurt. With no required items at all the core collapses to the job-level
// similarity alone, so a job with zero requirements and zero similarity
// signal scores a fully defined 0 core, not an error.
func CalculateFitScore(jobSimilarity float64, cov CoverageBreakdown, cfg *config.ScoringConfig) types.FitScoreBreakdown {
	js := cfg.ClampSimilarity(jobSimilarity)

	var core float64
	if cov.TotalRequired == 0 {
		core = js
	} else {
		wReq := cfg.WeightRequired
		wSim := cfg.WeightJobSimilarity
		core = (wSim*js + wReq*cov.RequiredQualityCredit) / (wReq + wSim)
	}

	bonus := 100 * cov.PreferredCoverage * cfg.PreferredBonusMaxFraction

	raw := 100*core + bonus - cov.Penalty

	return types.FitScoreBreakdown{
		JobSimilarity: js,

		RequiredCoverage:       cov.RequiredCoverage,
		PreferredCoverage:      cov.PreferredCoverage,
		RequiredQualityCredit:  cov.RequiredQualityCredit,
		PreferredQualityCredit: cov.PreferredQualityCredit,

		TotalRequiredCount:    cov.TotalRequired,
		CoveredRequiredCount:  cov.CoveredRequired,
		MissingRequiredCount:  cov.MissingRequired,
		TotalPreferredCount:   cov.TotalPreferred,
		CoveredPreferredCount: cov.CoveredPreferred,

		MissingRequiredRatio:   cov.MissingRequiredRatio,
		MissingRequiredPenalty: cov.Penalty,

		Core:                 core,
		PreferredBonusPoints: bonus,
		RawScore:             raw,
		FitScore:             similarity.Clamp(raw, 0, 100),
	}
}
