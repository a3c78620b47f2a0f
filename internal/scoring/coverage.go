// Package scoring turns requirement match results into the bounded,
// explainable Fit and Want scores. All functions are pure over explicit
// inputs; the config is read-only and shared freely across workers.
package scoring

import (
	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// CoverageBreakdown aggregates per-requirement outcomes into coverage
// ratios and the explicit missing-required penalty.
type CoverageBreakdown struct {
	TotalRequired   int
	CoveredRequired int
	MissingRequired int

	TotalPreferred   int
	CoveredPreferred int

	// Count-based ratios. A job with zero items of a kind cannot be
	// penalized for missing them, so zero totals yield coverage 1.0.
	RequiredCoverage  float64
	PreferredCoverage float64

	// Threshold-rescaled credit: 0 below threshold, then linear from 0 at
	// the threshold to 1 at similarity 1. Feeds the Fit core so a 0.56
	// match with a 0.55 threshold earns almost nothing, not full credit.
	RequiredQualityCredit  float64
	PreferredQualityCredit float64

	MissingRequiredRatio float64
	Penalty              float64
}

// CalculateCoverage partitions match results by kind and computes coverage
// ratios, quality credits, and the explicit missing-required penalty.
// Must-have kinds (required, constraint) count against required coverage;
// preferred items only ever add. Responsibilities and benefits are matched
// for explainability but carry no coverage weight.
func CalculateCoverage(results []types.RequirementMatchResult, cfg *config.ScoringConfig) CoverageBreakdown {
	var cov CoverageBreakdown
	var requiredQualitySum, preferredQualitySum float64

	for _, r := range results {
		switch {
		case r.Kind.MustHave():
			cov.TotalRequired++
			if r.Covered {
				cov.CoveredRequired++
			}
			requiredQualitySum += scaledQuality(r.Similarity, cfg)
		case r.Kind == types.KindPreferred:
			cov.TotalPreferred++
			if r.Covered {
				cov.CoveredPreferred++
			}
			preferredQualitySum += scaledQuality(r.Similarity, cfg)
		}
	}

	cov.MissingRequired = cov.TotalRequired - cov.CoveredRequired

	cov.RequiredCoverage = 1.0
	cov.RequiredQualityCredit = 1.0
	if cov.TotalRequired > 0 {
		cov.RequiredCoverage = float64(cov.CoveredRequired) / float64(cov.TotalRequired)
		cov.RequiredQualityCredit = requiredQualitySum / float64(cov.TotalRequired)
	}

	cov.PreferredCoverage = 1.0
	cov.PreferredQualityCredit = 1.0
	if cov.TotalPreferred > 0 {
		cov.PreferredCoverage = float64(cov.CoveredPreferred) / float64(cov.TotalPreferred)
		cov.PreferredQualityCredit = preferredQualitySum / float64(cov.TotalPreferred)
	}

	cov.MissingRequiredRatio = 1 - cov.RequiredCoverage
	cov.Penalty = missingRequiredPenalty(cov, cfg)

	return cov
}

// scaledQuality maps a raw similarity onto [0,1] coverage credit: 0 below
// the threshold, then linear partial credit up to 1 at similarity 1.
func scaledQuality(sim float64, cfg *config.ScoringConfig) float64 {
	sim = cfg.ClampSimilarity(sim)
	threshold := similarity.Clamp01(cfg.SimilarityThreshold)

	if sim < threshold {
		return 0
	}
	// A threshold of 1 gives credit only to perfect matches.
	if threshold >= 1 {
		if sim >= 1 {
			return 1
		}
		return 0
	}
	return (sim - threshold) / (1 - threshold)
}

// missingRequiredPenalty computes the explicit detractor for missing
// required items: a ratio-based component plus a flat per-item component.
// The cap exists to avoid double-punishing jobs whose low required
// coverage already depresses the core score; a cap of 0 disables it.
func missingRequiredPenalty(cov CoverageBreakdown, cfg *config.ScoringConfig) float64 {
	if !cfg.EnableMissingRequiredPenalty {
		return 0
	}

	penalty := cov.MissingRequiredRatio*cfg.MissingRequiredPenaltyMax +
		float64(cov.MissingRequired)*cfg.PerMissingRequiredPenalty

	if cfg.MissingRequiredPenaltyCap > 0 && penalty > cfg.MissingRequiredPenaltyCap {
		penalty = cfg.MissingRequiredPenaltyCap
	}
	return penalty
}
