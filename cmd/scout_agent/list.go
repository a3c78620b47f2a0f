package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/db"
	"github.com/jonathan/job-scout/internal/observability"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored match records for a resume version",
	Long:  "Lists persisted match records for one user and resume version, best overall score first. Stale records are included and marked.",
	RunE:  runList,
}

var (
	listUserID      string
	listResumeID    string
	listLimit       int
	listVerbose     bool
	listDatabaseURL string
)

func init() {
	listCmd.Flags().StringVarP(&listUserID, "user", "u", "", "User UUID (required)")
	listCmd.Flags().StringVarP(&listResumeID, "resume-version", "r", "", "Resume version UUID (required)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum records to return (default 50)")
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "Print full score breakdowns instead of a summary line per record")
	listCmd.Flags().StringVar(&listDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	if err := listCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	if err := listCmd.MarkFlagRequired("resume-version"); err != nil {
		panic(fmt.Sprintf("failed to mark resume-version flag as required: %v", err))
	}

	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	userID, err := uuid.Parse(listUserID)
	if err != nil {
		return fmt.Errorf("invalid user UUID: %w", err)
	}
	resumeID, err := uuid.Parse(listResumeID)
	if err != nil {
		return fmt.Errorf("invalid resume version UUID: %w", err)
	}

	databaseURL := listDatabaseURL
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

	records, err := database.MatchRecords().ListByResumeVersion(ctx, userID, resumeID, listLimit)
	if err != nil {
		return fmt.Errorf("failed to list match records: %w", err)
	}

	if len(records) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "No match records for resume version %s\n", resumeID)
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	for i := range records {
		record := &records[i]
		if listVerbose {
			printer.PrintMatchRecord(record)
			continue
		}

		staleMark := ""
		if record.Stale {
			staleMark = " [stale]"
		}
		want := "-"
		if record.WantScore != nil {
			want = fmt.Sprintf("%.1f", *record.WantScore)
		}
		_, _ = fmt.Fprintf(os.Stdout, "%s  fit %.1f  want %s  overall %.1f  (%s)%s\n",
			record.JobID, record.FitScore, want, record.OverallScore, record.ConfigVersion, staleMark)
	}
	return nil
}
