package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/db"
	"github.com/jonathan/job-scout/internal/embedding"
	"github.com/jonathan/job-scout/internal/observability"
	"github.com/jonathan/job-scout/internal/pipeline"
	"github.com/jonathan/job-scout/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume version against job postings",
	Long: `Runs the full two-stage pipeline: builds a resume-level embedding, retrieves the top-K candidate jobs by summary similarity, then matches each candidate's requirements against the full evidence pool and computes Fit, Want, and Overall scores.

Inputs come either from the database (--user and --resume-version, with optional --jobs to restrict the corpus) or from a self-contained JSON fixture file (--fixture). Records are persisted unless --no-write is set or no database is configured.`,
	RunE: runScore,
}

var (
	scoreConfigPath  string
	scoreFixturePath string
	scoreUserID      string
	scoreResumeID    string
	scoreJobIDs      string
	scoreTopK        int
	scoreNoWrite     bool
	scoreVerbose     bool
	scoreAPIKey      string
	scoreDatabaseURL string
)

func init() {
	scoreCmd.Flags().StringVar(&scoreConfigPath, "config", "", "Path to scoring config JSON file (defaults applied for unset fields)")
	scoreCmd.Flags().StringVarP(&scoreFixturePath, "fixture", "f", "", "Path to a JSON fixture with evidence, wants, and jobs (mutually exclusive with --user/--resume-version)")
	scoreCmd.Flags().StringVarP(&scoreUserID, "user", "u", "", "User UUID (required unless --fixture)")
	scoreCmd.Flags().StringVarP(&scoreResumeID, "resume-version", "r", "", "Resume version UUID (required unless --fixture)")
	scoreCmd.Flags().StringVar(&scoreJobIDs, "jobs", "", "Comma-separated job UUIDs to score (default: all active postings)")
	scoreCmd.Flags().IntVar(&scoreTopK, "top-k", 0, "Override the configured Stage-1 candidate count")
	scoreCmd.Flags().BoolVar(&scoreNoWrite, "no-write", false, "Score without persisting match records")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print full per-job score breakdowns")
	scoreCmd.Flags().StringVar(&scoreAPIKey, "api-key", "", "Gemini API key for text-mode resume embedding (optional, defaults to GEMINI_API_KEY env var)")
	scoreCmd.Flags().StringVar(&scoreDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scoreCmd)
}

// scoreFixture is the self-contained input format for offline runs: one
// resume version's evidence and wants plus the postings to score, all with
// precomputed embeddings.
type scoreFixture struct {
	UserID          uuid.UUID               `json:"user_id"`
	ResumeVersionID uuid.UUID               `json:"resume_version_id"`
	Evidence        []types.EvidenceUnit    `json:"evidence"`
	Wants           []types.EmbeddingVector `json:"wants,omitempty"`
	Jobs            []types.JobPosting      `json:"jobs"`
}

func runScore(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.DefaultScoringConfig()
	if scoreConfigPath != "" {
		loaded, err := config.LoadScoringConfig(scoreConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if scoreVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s (version %s)\n", scoreConfigPath, cfg.Version)
		}
	}
	if scoreTopK > 0 {
		cfg.TopK = scoreTopK
	}

	if scoreFixturePath != "" && (scoreUserID != "" || scoreResumeID != "") {
		return fmt.Errorf("--fixture and --user/--resume-version are mutually exclusive; provide only one input source")
	}

	in := pipeline.BatchInput{
		NoWrite: scoreNoWrite,
		Verbose: scoreVerbose,
	}

	var database *db.DB
	switch {
	case scoreFixturePath != "":
		fixture, err := loadFixture(scoreFixturePath)
		if err != nil {
			return err
		}
		in.UserID = fixture.UserID
		in.ResumeVersionID = fixture.ResumeVersionID
		in.Evidence = fixture.Evidence
		in.Wants = fixture.Wants
		in.Jobs = fixture.Jobs

	case scoreUserID != "" && scoreResumeID != "":
		userID, err := uuid.Parse(scoreUserID)
		if err != nil {
			return fmt.Errorf("invalid user UUID: %w", err)
		}
		resumeID, err := uuid.Parse(scoreResumeID)
		if err != nil {
			return fmt.Errorf("invalid resume version UUID: %w", err)
		}

		databaseURL := scoreDatabaseURL
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		if databaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required when loading from the database")
		}

		database, err = db.Connect(ctx, databaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		jobIDs, err := parseJobIDs(scoreJobIDs)
		if err != nil {
			return err
		}

		corpus := database.Corpus()
		in.UserID = userID
		in.ResumeVersionID = resumeID
		if in.Evidence, err = corpus.LoadEvidenceUnits(ctx, resumeID); err != nil {
			return err
		}
		if len(in.Evidence) == 0 {
			return fmt.Errorf("no evidence units found for resume version %s", resumeID)
		}
		if in.Wants, err = corpus.LoadWants(ctx, userID); err != nil {
			return err
		}
		if in.Jobs, err = corpus.LoadJobPostings(ctx, jobIDs); err != nil {
			return err
		}
		in.Store = database.MatchRecords()

	default:
		return fmt.Errorf("either --fixture or both --user and --resume-version must be provided")
	}

	if len(in.Jobs) == 0 {
		return fmt.Errorf("no job postings to score")
	}

	// Text mode needs a live embedding provider; pooled mode works offline.
	if cfg.Stage1.Mode == config.Stage1ModeText {
		apiKey := scoreAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey != "" {
			embedder, err := embedding.NewGeminiEmbedder(ctx, apiKey, embedding.DefaultEmbeddingModel)
			if err != nil {
				return fmt.Errorf("failed to create embedding client: %w", err)
			}
			defer func() { _ = embedder.Close() }()
			in.Embedder = embedder
		} else if scoreVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "No API key configured; text mode will fall back to pooled evidence embeddings\n")
		}
	}

	result, err := pipeline.ScoreBatch(ctx, in, cfg)
	if err != nil {
		return fmt.Errorf("scoring run failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if scoreVerbose {
		printer.PrintBuildDetails(result.BuildDetails)
	}
	printer.PrintWarnings(result.Warnings)

	for _, failure := range result.Failures {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to score job %s (%s - %s): %s\n",
			failure.JobID, failure.Company, failure.Title, failure.Message)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Scored %d of %d candidate jobs (%d failures)\n",
		len(result.Records), result.CandidateCount, len(result.Failures))
	if len(result.Records) > 0 {
		best := result.Records[0]
		_, _ = fmt.Fprintf(os.Stdout, "Best match: job %s (fit %.1f, overall %.1f)\n", best.JobID, best.FitScore, best.OverallScore)
	}

	if len(result.Records) == 0 && len(result.Failures) > 0 {
		return fmt.Errorf("all %d candidate jobs failed to score", len(result.Failures))
	}
	return nil
}

func loadFixture(path string) (*scoreFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	var fixture scoreFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture JSON: %w", err)
	}
	if fixture.UserID == uuid.Nil || fixture.ResumeVersionID == uuid.Nil {
		return nil, fmt.Errorf("fixture must set user_id and resume_version_id")
	}
	return &fixture, nil
}

func parseJobIDs(csv string) ([]uuid.UUID, error) {
	if csv == "" {
		return nil, nil
	}

	var ids []uuid.UUID
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid job UUID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
