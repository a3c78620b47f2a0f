package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/embedding"
	"github.com/jonathan/job-scout/internal/types"
)

func sampleRecord() *types.MatchRecord {
	want := 72.5
	return &types.MatchRecord{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		ResumeVersionID: uuid.New(),
		JobID:           uuid.MustParse("11111111-2222-3333-4444-555555555555"),

		FitScore:     81.3,
		WantScore:    &want,
		OverallScore: 77.8,

		Fit: types.FitScoreBreakdown{
			JobSimilarity:          0.74,
			RequiredCoverage:       0.8,
			PreferredCoverage:      0.5,
			TotalRequiredCount:     5,
			CoveredRequiredCount:   4,
			MissingRequiredCount:   1,
			TotalPreferredCount:    2,
			CoveredPreferredCount:  1,
			Core:                   0.69,
			PreferredBonusPoints:   4.0,
			MissingRequiredPenalty: 8.0,
		},
		Want: &types.WantScoreBreakdown{
			NumWants:          3,
			NumFacets:         2,
			Aggregate:         0.8,
			WeightedAggregate: 0.725,
			Contributions: []types.FacetContribution{
				{Key: types.FacetTechStack, MeanScore: 0.9, Weight: 1, Contribution: 0.9},
				{Key: types.FacetCompensation, MeanScore: 0.55, Weight: 1, Contribution: 0.55},
			},
			WantScore: 72.5,
		},
	}
}

func TestPrintMatchRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchRecord(sampleRecord())
	output := buf.String()

	assert.Contains(t, output, "MATCH RECORD")
	assert.Contains(t, output, "11111111-2222-3333-4444-555555555555")
	assert.Contains(t, output, "81.3")
	assert.Contains(t, output, "72.5")
	assert.Contains(t, output, "77.8")
	assert.Contains(t, output, "4/5")
	assert.Contains(t, output, "tech_stack")
}

func TestPrintMatchRecord_NoWantScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	record := sampleRecord()
	record.WantScore = nil
	record.Want = nil

	p.PrintMatchRecord(record)
	output := buf.String()

	assert.Contains(t, output, "(not scored)")
	assert.NotContains(t, output, "tech_stack")
}

func TestPrintMatchRecord_Stale(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	record := sampleRecord()
	record.Stale = true

	p.PrintMatchRecord(record)

	assert.Contains(t, buf.String(), "MATCH RECORD (STALE)")
}

func TestPrintMatchRecord_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchRecord(nil)

	assert.Empty(t, buf.String())
}

func TestPrintRequirementMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	evidenceID := uuid.New()
	matches := []types.RequirementMatchResult{
		{RequirementID: uuid.New(), Kind: types.KindRequired, EvidenceID: &evidenceID, Similarity: 0.82, Covered: true},
		{RequirementID: uuid.New(), Kind: types.KindPreferred, Similarity: 0.31, Covered: false},
	}

	p.PrintRequirementMatches(matches)
	output := buf.String()

	assert.Contains(t, output, "REQUIREMENT MATCHES")
	assert.Contains(t, output, "Matched 1 of 2")
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "✗")
	assert.Contains(t, output, "0.820")
}

func TestPrintRequirementMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirementMatches(nil)

	assert.Empty(t, buf.String())
}

func TestPrintBuildDetails(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	details := &embedding.BuildDetails{
		RequestedMode:  config.Stage1ModeText,
		ActualMode:     config.Stage1ModePooledREU,
		FallbackReason: embedding.FallbackProviderUnavailable,
		EvidenceCount:  6,
		TotalEvidence:  9,
		PoolingMethod:  config.PoolingWeightedMean,
		SectionsUsed:   []string{"experience", "skills", "summary"},
	}

	p.PrintBuildDetails(details)
	output := buf.String()

	assert.Contains(t, output, "RESUME EMBEDDING")
	assert.Contains(t, output, "pooled_reu")
	assert.Contains(t, output, "provider_unavailable")
	assert.Contains(t, output, "6 of 9")
}

func TestPrintWarnings_WithWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWarnings([]string{"job abc has no summary embedding, ranked with similarity 0"})
	output := buf.String()

	assert.Contains(t, output, "WARNINGS")
	assert.Contains(t, output, "no summary embedding")
}

func TestPrintWarnings_NoWarnings(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWarnings(nil)

	assert.Contains(t, buf.String(), "NO WARNINGS")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintWarnings([]string{strings.Repeat("a very long warning message ", 5)})
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.True(t, strings.Contains(output, "│"))
}
