// Package pipeline provides the high-level orchestration for the two-stage
// matching and scoring process.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/embedding"
	"github.com/jonathan/job-scout/internal/matching"
	"github.com/jonathan/job-scout/internal/observability"
	"github.com/jonathan/job-scout/internal/scoring"
	"github.com/jonathan/job-scout/internal/similarity"
	"github.com/jonathan/job-scout/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string    `json:"step"`
	Category string    `json:"category"`
	Message  string    `json:"message"`
	JobID    uuid.UUID `json:"job_id,omitempty"`
	Content  any       `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Progress step and category names.
const (
	StepResumeEmbedding = "resume_embedding"
	StepStage1Retrieval = "stage1_retrieval"
	StepJobScored       = "job_scored"
	StepRecordPersisted = "record_persisted"

	CategoryStage1  = "stage1"
	CategoryStage2  = "stage2"
	CategoryPersist = "persistence"
)

// MatchStore is the persistence capability the pipeline depends on. A nil
// store (or NoWrite) turns a run into a pure preview.
type MatchStore interface {
	// GetExisting returns the record for (user, resume version, job), or
	// nil if none exists.
	GetExisting(ctx context.Context, userID, resumeVersionID, jobID uuid.UUID) (*types.MatchRecord, error)
	// Upsert inserts or replaces the record keyed by (user, resume
	// version, job).
	Upsert(ctx context.Context, record *types.MatchRecord) error
}

// BatchInput holds one scoring run: one resume version against a corpus of
// job postings.
type BatchInput struct {
	UserID          uuid.UUID
	ResumeVersionID uuid.UUID

	Evidence []types.EvidenceUnit
	Wants    []types.EmbeddingVector
	Jobs     []types.JobPosting

	Embedder   embedding.Embedder // optional; only consulted in text mode
	Store      MatchStore         // optional; nil disables persistence
	NoWrite    bool               // score without persisting
	Verbose    bool
	OnProgress ProgressCallback
}

// JobFailure records a job that could not be scored. Failures never abort
// the batch; the remaining jobs still produce records.
type JobFailure struct {
	JobID   uuid.UUID `json:"job_id"`
	Company string    `json:"company,omitempty"`
	Title   string    `json:"title,omitempty"`
	Err     error     `json:"-"`
	Message string    `json:"message"`
}

// BatchResult is the outcome of one scoring run.
type BatchResult struct {
	ResumeEmbedding types.EmbeddingVector
	BuildDetails    *embedding.BuildDetails

	CandidateCount int // jobs that entered Stage 2
	Records        []types.MatchRecord
	Failures       []JobFailure
	Warnings       []string
}

// stage1Candidate pairs a job with its clamped resume-level similarity.
type stage1Candidate struct {
	job *types.JobPosting
	sim float64
}

// emitProgress calls the progress callback if configured
func emitProgress(in *BatchInput, step, category, message string, jobID uuid.UUID, content any) {
	if in.OnProgress != nil {
		in.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			JobID:    jobID,
			Content:  content,
		})
	}
}

// ScoreBatch runs the full two-stage pipeline: build the resume-level
// embedding, retrieve the top-K candidate jobs by summary similarity, then
// score each candidate's requirements against the full evidence pool.
//
// Configuration problems abort the run before any scoring. Per-job
// problems (a dimension mismatch, a malformed posting) are captured as
// failures while the rest of the batch completes. Cancellation via ctx
// stops workers cooperatively and returns ctx.Err().
func ScoreBatch(ctx context.Context, in BatchInput, cfg *config.ScoringConfig) (*BatchResult, error) {
	if cfg == nil {
		cfg = config.DefaultScoringConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	printer := observability.NewPrinter(os.Stdout)
	result := &BatchResult{}

	// Step 1: resume-level embedding for coarse retrieval.
	fmt.Printf("Step 1/3: Building resume embedding (%d evidence units)...\n", len(in.Evidence))
	resumeEmb, details, err := embedding.BuildResumeEmbedding(ctx, in.Embedder, in.Evidence, cfg.Stage1)
	if err != nil {
		// No usable resume vector: every job ties at similarity 0 and the
		// run degrades to requirement-only scoring instead of aborting.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("resume embedding unavailable, scoring all jobs with similarity 0: %v", err))
	}
	result.ResumeEmbedding = resumeEmb
	result.BuildDetails = details
	if details != nil && details.FallbackReason != "" {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("stage-1 mode fell back from %s to %s (%s)",
				details.RequestedMode, details.ActualMode, details.FallbackReason))
	}
	emitProgress(&in, StepResumeEmbedding, CategoryStage1,
		fmt.Sprintf("Built resume embedding from %d evidence units", len(in.Evidence)), uuid.Nil, details)

	// Step 2: Stage-1 retrieval.
	fmt.Printf("Step 2/3: Ranking %d jobs, keeping top %d...\n", len(in.Jobs), cfg.TopK)
	candidates := rankCandidates(resumeEmb, in.Jobs, cfg, result)
	result.CandidateCount = len(candidates)
	emitProgress(&in, StepStage1Retrieval, CategoryStage1,
		fmt.Sprintf("Selected %d of %d jobs for fine matching", len(candidates), len(in.Jobs)), uuid.Nil, nil)

	// Step 3: Stage-2 fine matching and scoring over a bounded worker pool.
	fmt.Printf("Step 3/3: Scoring %d candidate jobs (concurrency %d)...\n", len(candidates), cfg.Concurrency)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Concurrency)

	var mu sync.Mutex
	for i := range candidates {
		cand := candidates[i]
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			record, err := scoreCandidate(cand.job, cand.sim, &in, cfg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, JobFailure{
					JobID:   cand.job.ID,
					Company: cand.job.Company,
					Title:   cand.job.Title,
					Err:     err,
					Message: err.Error(),
				})
				return nil
			}
			result.Records = append(result.Records, *record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Stable output order: best overall first, ties to the smaller job ID.
	sort.Slice(result.Records, func(i, j int) bool {
		a, b := &result.Records[i], &result.Records[j]
		d := a.OverallScore - b.OverallScore
		if d > cfg.ScoreEpsilon {
			return true
		}
		if d < -cfg.ScoreEpsilon {
			return false
		}
		return a.JobID.String() < b.JobID.String()
	})

	for i := range result.Records {
		record := &result.Records[i]
		if in.Verbose {
			printer.PrintMatchRecord(record)
		}
		emitProgress(&in, StepJobScored, CategoryStage2,
			fmt.Sprintf("Scored job %s: fit %.1f overall %.1f", record.JobID, record.FitScore, record.OverallScore),
			record.JobID, record)
	}

	if err := persistRecords(ctx, &in, cfg, result); err != nil {
		return nil, err
	}

	fmt.Printf("Done: %d records, %d failures.\n", len(result.Records), len(result.Failures))
	return result, nil
}

// ScoreOne scores a single resume-job pair through the same path as a
// batch run. in.Jobs must contain exactly one posting.
func ScoreOne(ctx context.Context, in BatchInput, cfg *config.ScoringConfig) (*types.MatchRecord, error) {
	if len(in.Jobs) != 1 {
		return nil, fmt.Errorf("expected exactly one job, got %d", len(in.Jobs))
	}

	result, err := ScoreBatch(ctx, in, cfg)
	if err != nil {
		return nil, err
	}
	if len(result.Failures) > 0 {
		f := result.Failures[0]
		return nil, fmt.Errorf("scoring job %s failed: %w", f.JobID, f.Err)
	}
	if len(result.Records) != 1 {
		return nil, fmt.Errorf("expected one record, got %d", len(result.Records))
	}
	return &result.Records[0], nil
}

// rankCandidates computes the clamped resume-to-job similarity for every
// posting, ranks descending, and keeps the top K. Jobs without a summary
// embedding rank with similarity 0 rather than being dropped; jobs whose
// embedding has the wrong dimensionality become failures.
func rankCandidates(resumeEmb types.EmbeddingVector, jobs []types.JobPosting, cfg *config.ScoringConfig, result *BatchResult) []stage1Candidate {
	candidates := make([]stage1Candidate, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]

		sim := 0.0
		if !resumeEmb.IsZero() && !job.SummaryEmbedding.IsZero() {
			var err error
			sim, err = similarity.Cosine(resumeEmb, job.SummaryEmbedding)
			if err != nil {
				result.Failures = append(result.Failures, JobFailure{
					JobID:   job.ID,
					Company: job.Company,
					Title:   job.Title,
					Err:     err,
					Message: fmt.Sprintf("stage-1 similarity: %v", err),
				})
				continue
			}
		} else if job.SummaryEmbedding.IsZero() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("job %s has no summary embedding, ranked with similarity 0", job.ID))
		}

		candidates = append(candidates, stage1Candidate{job: job, sim: cfg.ClampSimilarity(sim)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		d := candidates[i].sim - candidates[j].sim
		if d > cfg.ScoreEpsilon {
			return true
		}
		if d < -cfg.ScoreEpsilon {
			return false
		}
		return candidates[i].job.ID.String() < candidates[j].job.ID.String()
	})

	if len(candidates) > cfg.TopK {
		candidates = candidates[:cfg.TopK]
	}
	return candidates
}

// scoreCandidate runs Stage-2 fine matching and all scorers for one job.
func scoreCandidate(job *types.JobPosting, jobSim float64, in *BatchInput, cfg *config.ScoringConfig) (*types.MatchRecord, error) {
	matches, err := matching.MatchAll(job.Requirements, in.Evidence, cfg.SimilarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("matching requirements: %w", err)
	}

	cov := scoring.CalculateCoverage(matches, cfg)
	fit := scoring.CalculateFitScore(jobSim, cov, cfg)

	want, err := scoring.CalculateWantScore(in.Wants, job.Facets, cfg.FacetWeights)
	if err != nil {
		return nil, fmt.Errorf("want score: %w", err)
	}
	var wantScore *float64
	if want != nil {
		ws := want.WantScore
		wantScore = &ws
	}

	return &types.MatchRecord{
		ID:              uuid.New(),
		UserID:          in.UserID,
		ResumeVersionID: in.ResumeVersionID,
		JobID:           job.ID,

		FitScore:     fit.FitScore,
		WantScore:    wantScore,
		OverallScore: scoring.CombineOverall(fit.FitScore, wantScore, cfg),

		Fit:                fit,
		Want:               want,
		RequirementMatches: matches,

		ConfigVersion: cfg.Version,
	}, nil
}

// persistRecords upserts every scored record unless the run is a preview.
// A re-run whose scores match the stored record within ScoreEpsilon leaves
// the row untouched, so re-scoring unchanged inputs is idempotent.
func persistRecords(ctx context.Context, in *BatchInput, cfg *config.ScoringConfig, result *BatchResult) error {
	if in.Store == nil || in.NoWrite {
		return nil
	}

	for i := range result.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := &result.Records[i]

		existing, err := in.Store.GetExisting(ctx, record.UserID, record.ResumeVersionID, record.JobID)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("failed to read existing record for job %s: %v", record.JobID, err))
		}
		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if recordsEquivalent(existing, record, cfg.ScoreEpsilon) {
				record.UpdatedAt = existing.UpdatedAt
				continue
			}
		}

		if err := in.Store.Upsert(ctx, record); err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("failed to persist record for job %s: %v", record.JobID, err))
			continue
		}
		emitProgress(in, StepRecordPersisted, CategoryPersist,
			fmt.Sprintf("Persisted match record for job %s", record.JobID), record.JobID, nil)
	}
	return nil
}

// recordsEquivalent reports whether a freshly scored record matches the
// stored one closely enough that rewriting it would be a no-op.
func recordsEquivalent(existing, fresh *types.MatchRecord, epsilon float64) bool {
	if existing.ConfigVersion != fresh.ConfigVersion || existing.Stale {
		return false
	}
	if !withinEpsilon(existing.FitScore, fresh.FitScore, epsilon) {
		return false
	}
	if !withinEpsilon(existing.OverallScore, fresh.OverallScore, epsilon) {
		return false
	}
	if (existing.WantScore == nil) != (fresh.WantScore == nil) {
		return false
	}
	if existing.WantScore != nil && !withinEpsilon(*existing.WantScore, *fresh.WantScore, epsilon) {
		return false
	}
	return true
}

func withinEpsilon(a, b, epsilon float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= epsilon
}
