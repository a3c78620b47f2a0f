package embedding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// Fallback reasons recorded in BuildDetails when the actual mode differs
// from the requested one.
const (
	FallbackProviderUnavailable = "provider_unavailable"
	FallbackProviderError       = "provider_error"
	FallbackUnknownMode         = "unknown_mode"
)

// BuildDetails records how the resume embedding was built, for audit and
// verbose output. FallbackReason is empty unless the requested mode could
// not be honored.
type BuildDetails struct {
	RequestedMode  string             `json:"requested_mode"`
	ActualMode     string             `json:"actual_mode"`
	FallbackReason string             `json:"fallback_reason,omitempty"`
	EvidenceCount  int                `json:"evidence_count"`
	TotalEvidence  int                `json:"total_evidence_count"`
	SectionsUsed   []string           `json:"sections_used,omitempty"`
	PoolingMethod  string             `json:"pooling_method,omitempty"`
	SectionWeights map[string]float64 `json:"section_weights,omitempty"`
	SliceLimit     int                `json:"slice_limit,omitempty"`
}

// BuildResumeEmbedding builds the resume-level vector used for coarse
// retrieval.
//
// In pooled_reu mode (the default) it pools the evidence-unit embeddings
// already computed for fine matching, weighted by resume section, and L2
// normalizes the result. Selection is deterministic and resume-local: a
// section with a positive configured weight is included, everything else
// is excluded. If no section qualifies, all units are pooled so the
// builder stays total.
//
// In text mode it concatenates the first N evidence texts and asks the
// provider for a fresh embedding. A nil embedder or a provider error falls
// back to pooled_reu rather than failing the run; the fallback is recorded
// in BuildDetails.
func BuildResumeEmbedding(ctx context.Context, embedder Embedder, evidence []types.EvidenceUnit, cfg config.Stage1Config) (types.EmbeddingVector, *BuildDetails, error) {
	switch cfg.Mode {
	case config.Stage1ModeText:
		return buildFromText(ctx, embedder, evidence, cfg)
	case config.Stage1ModePooledREU:
		return buildFromPooled(evidence, cfg, "")
	default:
		vec, details, err := buildFromPooled(evidence, cfg, FallbackUnknownMode)
		if details != nil {
			details.RequestedMode = cfg.Mode
		}
		return vec, details, err
	}
}

func buildFromText(ctx context.Context, embedder Embedder, evidence []types.EvidenceUnit, cfg config.Stage1Config) (types.EmbeddingVector, *BuildDetails, error) {
	if embedder == nil {
		vec, details, err := buildFromPooled(evidence, cfg, FallbackProviderUnavailable)
		if details != nil {
			details.RequestedMode = config.Stage1ModeText
		}
		return vec, details, err
	}

	limit := cfg.TextEvidenceSliceLimit
	if limit <= 0 || limit > len(evidence) {
		limit = len(evidence)
	}
	texts := make([]string, 0, limit)
	for _, e := range evidence[:limit] {
		texts = append(texts, e.Text)
	}

	vec, err := embedder.EmbedText(ctx, strings.Join(texts, " "))
	if err != nil {
		vec, details, perr := buildFromPooled(evidence, cfg, FallbackProviderError)
		if details != nil {
			details.RequestedMode = config.Stage1ModeText
		}
		return vec, details, perr
	}

	return vec, &BuildDetails{
		RequestedMode: config.Stage1ModeText,
		ActualMode:    config.Stage1ModeText,
		EvidenceCount: limit,
		TotalEvidence: len(evidence),
		SliceLimit:    cfg.TextEvidenceSliceLimit,
	}, nil
}

func buildFromPooled(evidence []types.EvidenceUnit, cfg config.Stage1Config, fallbackReason string) (types.EmbeddingVector, *BuildDetails, error) {
	selected := selectCuratedSubset(evidence, cfg.SectionWeights)
	if len(selected) == 0 {
		// No section qualified; pool everything rather than fail.
		selected = evidence
	}

	vectors := make([]types.EmbeddingVector, 0, len(selected))
	weights := make([]float64, 0, len(selected))
	sections := make(map[string]bool)
	weightsApplied := make(map[string]float64)
	for _, e := range selected {
		if e.Embedding.IsZero() {
			continue
		}
		section := NormalizeSectionName(e.Section)
		w, ok := cfg.SectionWeights[section]
		if !ok {
			w = 1.0
		}
		vectors = append(vectors, e.Embedding)
		weights = append(weights, w)
		sections[section] = true
		weightsApplied[section] = w
	}
	if len(vectors) == 0 {
		return nil, nil, fmt.Errorf("no evidence units with embeddings to pool")
	}

	var pooled types.EmbeddingVector
	var err error
	switch cfg.PoolingMethod {
	case config.PoolingMean:
		pooled, err = similarity.Mean(vectors)
	default:
		pooled, err = similarity.WeightedMean(vectors, weights)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pool evidence embeddings: %w", err)
	}
	pooled = similarity.L2Normalize(pooled)

	used := make([]string, 0, len(sections))
	for s := range sections {
		used = append(used, s)
	}
	sort.Strings(used)

	return pooled, &BuildDetails{
		RequestedMode:  config.Stage1ModePooledREU,
		ActualMode:     config.Stage1ModePooledREU,
		FallbackReason: fallbackReason,
		EvidenceCount:  len(vectors),
		TotalEvidence:  len(evidence),
		SectionsUsed:   used,
		PoolingMethod:  cfg.PoolingMethod,
		SectionWeights: weightsApplied,
	}, nil
}

// selectCuratedSubset keeps evidence units whose normalized section has a
// positive configured weight. Sections absent from the weight map are
// excluded; selection never consults the job side.
func selectCuratedSubset(evidence []types.EvidenceUnit, sectionWeights map[string]float64) []types.EvidenceUnit {
	selected := make([]types.EvidenceUnit, 0, len(evidence))
	for _, e := range evidence {
		if sectionWeights[NormalizeSectionName(e.Section)] > 0 {
			selected = append(selected, e)
		}
	}
	return selected
}

var sectionAliases = map[string]string{
	"summary":                 "summary",
	"summary section":         "summary",
	"about":                   "summary",
	"profile":                 "summary",
	"skills":                  "skills",
	"skills section":          "skills",
	"technical skills":        "skills",
	"skill groups":            "skills",
	"experience":              "experience",
	"experience section":      "experience",
	"professional experience": "experience",
	"work experience":         "experience",
	"work history":            "experience",
	"projects":                "projects",
	"project section":         "projects",
	"portfolio":               "projects",
	"education":               "education",
	"education section":       "education",
	"academic":                "education",
	"degrees":                 "education",
}

// NormalizeSectionName maps common resume section headings onto the
// canonical names used in section weight configuration. Unknown names pass
// through lowercased.
func NormalizeSectionName(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := sectionAliases[lower]; ok {
		return canonical
	}
	return lower
}
