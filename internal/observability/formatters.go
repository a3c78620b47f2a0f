// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-scout/internal/embedding"
	"github.com/jonathan/job-scout/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatchRecord outputs a human-readable summary of one scored match:
// headline scores, the fit decomposition, and the want decomposition when
// preferences were scored.
func (p *Printer) PrintMatchRecord(record *types.MatchRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Job:      %s\n", record.JobID))
	sb.WriteString(fmt.Sprintf("Fit:      %.1f\n", record.FitScore))
	if record.WantScore != nil {
		sb.WriteString(fmt.Sprintf("Want:     %.1f\n", *record.WantScore))
	} else {
		sb.WriteString("Want:     (not scored)\n")
	}
	sb.WriteString(fmt.Sprintf("Overall:  %.1f\n", record.OverallScore))
	sb.WriteString("\n")

	fit := &record.Fit
	sb.WriteString(fmt.Sprintf("Job similarity:     %.3f\n", fit.JobSimilarity))
	sb.WriteString(fmt.Sprintf("Required coverage:  %d/%d (%.0f%%)\n",
		fit.CoveredRequiredCount, fit.TotalRequiredCount, 100*fit.RequiredCoverage))
	sb.WriteString(fmt.Sprintf("Preferred coverage: %d/%d (%.0f%%)\n",
		fit.CoveredPreferredCount, fit.TotalPreferredCount, 100*fit.PreferredCoverage))
	sb.WriteString(fmt.Sprintf("Core:               %.3f\n", fit.Core))
	sb.WriteString(fmt.Sprintf("Preferred bonus:    +%.1f\n", fit.PreferredBonusPoints))
	if fit.MissingRequiredPenalty > 0 {
		sb.WriteString(fmt.Sprintf("Missing penalty:    -%.1f (%d missing)\n",
			fit.MissingRequiredPenalty, fit.MissingRequiredCount))
	}

	if record.Want != nil {
		sb.WriteString("\n")
		sb.WriteString(p.formatWantBreakdown(record.Want))
	}

	title := "MATCH RECORD"
	if record.Stale {
		title = "MATCH RECORD (STALE)"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// formatWantBreakdown renders the facet contributions of a want score.
func (p *Printer) formatWantBreakdown(want *types.WantScoreBreakdown) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Wants vs facets:    %d x %d\n", want.NumWants, want.NumFacets))
	sb.WriteString(fmt.Sprintf("Aggregate:          %.3f (weighted %.3f)\n",
		want.Aggregate, want.WeightedAggregate))

	count := min(len(want.Contributions), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := want.Contributions[i]
		sb.WriteString(fmt.Sprintf("  • %-20s %.3f (w=%.1f)\n", c.Key, c.MeanScore, c.Weight))
	}
	if len(want.Contributions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more facets\n", len(want.Contributions)-maxItemsToShow))
	}

	return sb.String()
}

// PrintRequirementMatches outputs the per-requirement match decisions for
// one job, covered first.
func (p *Printer) PrintRequirementMatches(matches []types.RequirementMatchResult) {
	if len(matches) == 0 {
		return
	}

	var sb strings.Builder

	covered := 0
	for _, m := range matches {
		if m.Covered {
			covered++
		}
	}
	sb.WriteString(fmt.Sprintf("Matched %d of %d requirements:\n\n", covered, len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		marker := "✗"
		if m.Covered {
			marker = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-14s sim %.3f\n", marker, m.Kind, m.Similarity))
		if m.EvidenceID != nil {
			sb.WriteString(fmt.Sprintf("  evidence %s\n", m.EvidenceID))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more requirements", len(matches)-maxItemsToShow))
	}

	p.printBox("REQUIREMENT MATCHES", sb.String())
}

// PrintBuildDetails outputs how the resume-level embedding was assembled.
func (p *Printer) PrintBuildDetails(details *embedding.BuildDetails) {
	if details == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Requested mode: %s\n", details.RequestedMode))
	sb.WriteString(fmt.Sprintf("Actual mode:    %s\n", details.ActualMode))
	if details.FallbackReason != "" {
		sb.WriteString(fmt.Sprintf("Fallback:       %s\n", details.FallbackReason))
	}
	sb.WriteString(fmt.Sprintf("Evidence used:  %d of %d\n", details.EvidenceCount, details.TotalEvidence))
	if details.PoolingMethod != "" {
		sb.WriteString(fmt.Sprintf("Pooling:        %s\n", details.PoolingMethod))
	}
	if len(details.SectionsUsed) > 0 {
		sb.WriteString(fmt.Sprintf("Sections:       %s\n", strings.Join(details.SectionsUsed, ", ")))
	}

	p.printBox("RESUME EMBEDDING", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWarnings outputs non-fatal problems collected during a run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO WARNINGS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d warnings:\n\n", len(warnings)))

	for i, w := range warnings {
		if len(w) > 45 {
			w = w[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", w))
		if i < len(warnings)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("WARNINGS", sb.String())
}
