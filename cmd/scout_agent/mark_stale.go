package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/db"
)

var markStaleCmd = &cobra.Command{
	Use:   "mark-stale",
	Short: "Mark stored match records stale",
	Long: `Marks match records stale so the next scoring run recomputes them. Stale records are never treated as equivalent during idempotent re-scoring.

Use --resume-version after a resume edit, or --job after a posting changes.`,
	RunE: runMarkStale,
}

var (
	markStaleResumeID    string
	markStaleJobID       string
	markStaleDatabaseURL string
)

func init() {
	markStaleCmd.Flags().StringVarP(&markStaleResumeID, "resume-version", "r", "", "Resume version UUID whose records should go stale")
	markStaleCmd.Flags().StringVarP(&markStaleJobID, "job", "j", "", "Job UUID whose records should go stale")
	markStaleCmd.Flags().StringVar(&markStaleDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(markStaleCmd)
}

func runMarkStale(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	if (markStaleResumeID == "") == (markStaleJobID == "") {
		return fmt.Errorf("exactly one of --resume-version or --job must be provided")
	}

	databaseURL := markStaleDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	store := database.MatchRecords()

	var count int64
	if markStaleResumeID != "" {
		resumeID, err := uuid.Parse(markStaleResumeID)
		if err != nil {
			return fmt.Errorf("invalid resume version UUID: %w", err)
		}
		if count, err = store.MarkStaleForResumeVersion(ctx, resumeID); err != nil {
			return fmt.Errorf("failed to mark records stale: %w", err)
		}
	} else {
		jobID, err := uuid.Parse(markStaleJobID)
		if err != nil {
			return fmt.Errorf("invalid job UUID: %w", err)
		}
		if count, err = store.MarkStaleForJob(ctx, jobID); err != nil {
			return fmt.Errorf("failed to mark records stale: %w", err)
		}
	}

	_, _ = fmt.Fprintf(os.Stdout, "Marked %d match record(s) stale\n", count)
	return nil
}
