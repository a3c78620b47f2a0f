// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Stage-1 embedding modes.
const (
	Stage1ModeText      = "text"
	Stage1ModePooledREU = "pooled_reu"
)

// Pooling methods for pooled_reu mode.
const (
	PoolingWeightedMean = "weighted_mean"
	PoolingMean         = "mean"
)

// Stage1Config controls how the resume-level embedding used for coarse
// retrieval is built. Both modes produce the same vector type, so they are
// swappable without touching the pipeline.
type Stage1Config struct {
	Mode                   string             `json:"mode" validate:"oneof=text pooled_reu"`
	PoolingMethod          string             `json:"pooling_method" validate:"oneof=weighted_mean mean"`
	TextEvidenceSliceLimit int                `json:"text_evidence_slice_limit" validate:"gt=0"`
	SectionWeights         map[string]float64 `json:"section_weights"`
}

// ScoringConfig bundles every tunable threshold and weight for a scoring
// run. It is loaded once per run, validated up front, and never mutated
// mid-run; workers share it read-only without locking. Version tags
// persisted scores so historical results stay reproducible when defaults
// change.
type ScoringConfig struct {
	Version string `json:"version"`

	// Similarity handling
	SimilarityThreshold float64 `json:"similarity_threshold" validate:"gte=-1,lte=1"`
	SimilarityClampLow  float64 `json:"similarity_clamp_low"`
	SimilarityClampHigh float64 `json:"similarity_clamp_high"`

	// Fit core weights (unitless, >= 0)
	WeightRequired      float64 `json:"weight_required" validate:"gte=0"`
	WeightJobSimilarity float64 `json:"weight_job_similarity" validate:"gte=0"`

	// Preferred bonus, as a fraction of 100 points
	PreferredBonusMaxFraction float64 `json:"preferred_bonus_max_fraction" validate:"gte=0"`

	// Missing-required explicit penalty (points)
	EnableMissingRequiredPenalty bool    `json:"enable_missing_required_penalty"`
	MissingRequiredPenaltyMax    float64 `json:"missing_required_penalty_max" validate:"gte=0"`
	PerMissingRequiredPenalty    float64 `json:"per_missing_required_penalty" validate:"gte=0"`
	MissingRequiredPenaltyCap    float64 `json:"missing_required_penalty_cap" validate:"gte=0"`

	// Overall score combination
	FitWeight  float64 `json:"fit_weight" validate:"gte=0"`
	WantWeight float64 `json:"want_weight" validate:"gte=0"`

	// Want Score facet weights (non-negative; all zero falls back to the
	// unweighted aggregate)
	FacetWeights map[string]float64 `json:"facet_weights"`

	// Pipeline controls
	TopK        int     `json:"top_k" validate:"gt=0"`
	Concurrency int     `json:"concurrency" validate:"gt=0"`
	ScoreEpsilon float64 `json:"score_epsilon" validate:"gte=0"`

	Stage1 Stage1Config `json:"stage1"`
}

// DefaultScoringConfig returns the documented defaults. The requirement
// similarity threshold defaults to 0.55, the canonical value carried in
// the config version string.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Version: "v1.1",

		SimilarityThreshold: 0.55,
		SimilarityClampLow:  0,
		SimilarityClampHigh: 1,

		WeightRequired:      0.60,
		WeightJobSimilarity: 0.30,

		PreferredBonusMaxFraction: 0.08,

		EnableMissingRequiredPenalty: true,
		MissingRequiredPenaltyMax:    40,
		PerMissingRequiredPenalty:    0,
		MissingRequiredPenaltyCap:    70,

		FitWeight:  0.6,
		WantWeight: 0.4,

		FacetWeights: map[string]float64{
			"remote_flexibility": 1,
			"compensation":       1,
			"learning_growth":    1,
			"company_culture":    1,
			"work_life_balance":  1,
			"tech_stack":         1,
			"visa_sponsorship":   1,
		},

		TopK:         50,
		Concurrency:  8,
		ScoreEpsilon: 1e-9,

		Stage1: Stage1Config{
			Mode:                   Stage1ModePooledREU,
			PoolingMethod:          PoolingWeightedMean,
			TextEvidenceSliceLimit: 20,
			SectionWeights: map[string]float64{
				"summary":    2.0,
				"skills":     1.5,
				"experience": 1.0,
				"projects":   0,
				"education":  0,
			},
		},
	}
}

// LoadScoringConfig loads a scoring configuration from a JSON file,
// filling unset fields from the defaults, and validates it. Returns an
// error if the file cannot be read or parsed, or if validation fails.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultScoringConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks all tunables before any scoring begins. Malformed
// configuration is fatal for the run; it never surfaces mid-scoring.
func (c *ScoringConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.SimilarityClampLow >= c.SimilarityClampHigh {
		return fmt.Errorf("config error: similarity clamp bounds [%g, %g] are inverted or empty",
			c.SimilarityClampLow, c.SimilarityClampHigh)
	}
	if c.WeightRequired+c.WeightJobSimilarity <= 0 {
		return fmt.Errorf("config error: weight_required and weight_job_similarity cannot both be zero")
	}
	if c.FitWeight+c.WantWeight <= 0 {
		return fmt.Errorf("config error: fit_weight and want_weight cannot both be zero")
	}
	for key, w := range c.FacetWeights {
		if w < 0 {
			return fmt.Errorf("config error: facet weight %q must be non-negative, got %g", key, w)
		}
	}
	for key, w := range c.Stage1.SectionWeights {
		if w < 0 {
			return fmt.Errorf("config error: section weight %q must be non-negative, got %g", key, w)
		}
	}
	return nil
}

// ClampSimilarity bounds a raw similarity value to the configured clamp
// range. Every consumer applies this immediately after receiving any
// externally supplied similarity.
func (c *ScoringConfig) ClampSimilarity(s float64) float64 {
	if s < c.SimilarityClampLow {
		return c.SimilarityClampLow
	}
	if s > c.SimilarityClampHigh {
		return c.SimilarityClampHigh
	}
	return s
}
