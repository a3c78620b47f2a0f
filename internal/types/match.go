package types

import (
	"time"

	"github.com/google/uuid"
)

// RequirementMatchResult is the outcome of matching one requirement unit
// against a resume's evidence pool. Covered is true if and only if the
// similarity cleared the configured threshold and evidence was found.
// Results are recomputed on every scoring run, never mutated.
type RequirementMatchResult struct {
	RequirementID uuid.UUID       `json:"requirement_id"`
	Kind          RequirementKind `json:"kind"`
	EvidenceID    *uuid.UUID      `json:"evidence_id,omitempty"`
	Similarity    float64         `json:"similarity"`
	Covered       bool            `json:"covered"`
}

// FitScoreBreakdown is the decomposed output of the Fit Scorer. Pure value
// type; every field is recomputed each run so that persisted scores stay
// reproducible against the config version that produced them.
type FitScoreBreakdown struct {
	JobSimilarity float64 `json:"job_similarity"` // clamped

	RequiredCoverage       float64 `json:"required_coverage"`        // covered/total, count-based
	PreferredCoverage      float64 `json:"preferred_coverage"`       // covered/total, count-based
	RequiredQualityCredit  float64 `json:"required_quality_credit"`  // threshold-rescaled, feeds the core
	PreferredQualityCredit float64 `json:"preferred_quality_credit"` // threshold-rescaled

	TotalRequiredCount    int `json:"total_required_count"`
	CoveredRequiredCount  int `json:"covered_required_count"`
	MissingRequiredCount  int `json:"missing_required_count"`
	TotalPreferredCount   int `json:"total_preferred_count"`
	CoveredPreferredCount int `json:"covered_preferred_count"`

	MissingRequiredRatio   float64 `json:"missing_required_ratio"`
	MissingRequiredPenalty float64 `json:"missing_required_penalty"`

	Core                 float64 `json:"core"`
	PreferredBonusPoints float64 `json:"preferred_bonus_points"`
	RawScore             float64 `json:"raw_score"`
	FitScore             float64 `json:"fit_score"` // clamped to [0,100]
}

// FacetContribution records one facet's share of the weighted Want Score.
type FacetContribution struct {
	Key          string  `json:"key"`
	MeanScore    float64 `json:"mean_score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// WantScoreBreakdown is the decomposed output of the Want Scorer. A nil
// breakdown (no wants or no facets supplied) is distinct from a breakdown
// with a score of 0: the former means "no preferences to score", the
// latter "preferences were a poor match".
type WantScoreBreakdown struct {
	NumWants  int `json:"num_wants"`
	NumFacets int `json:"num_facets"`

	BestPerWant       []float64           `json:"best_per_want"`      // row-wise max, rescaled to [0,1]
	Aggregate         float64             `json:"aggregate"`          // mean of BestPerWant (unweighted)
	WeightedAggregate float64             `json:"weighted_aggregate"` // facet-mean based
	Contributions     []FacetContribution `json:"contributions,omitempty"`

	WantScore float64 `json:"want_score"` // min(100, 100*WeightedAggregate)
}

// MatchRecord is the persisted association between one resume version and
// one job posting, keyed uniquely by (user, resume version, job). Records
// are upserted idempotently and marked stale, never deleted, when the
// resume version or job content changes upstream.
type MatchRecord struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ResumeVersionID uuid.UUID `json:"resume_version_id"`
	JobID           uuid.UUID `json:"job_id"`

	FitScore     float64  `json:"fit_score"`
	WantScore    *float64 `json:"want_score,omitempty"` // absent when no wants/facets supplied
	OverallScore float64  `json:"overall_score"`

	Fit                FitScoreBreakdown        `json:"fit"`
	Want               *WantScoreBreakdown      `json:"want,omitempty"`
	RequirementMatches []RequirementMatchResult `json:"requirement_matches"`

	ConfigVersion string    `json:"config_version"`
	Stale         bool      `json:"stale"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// Key returns the unique (user, resume version, job) tuple as a comparable value.
func (m *MatchRecord) Key() [3]uuid.UUID {
	return [3]uuid.UUID{m.UserID, m.ResumeVersionID, m.JobID}
}
