// Package main provides the entry point for the Job Scout scoring CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scout_agent",
	Short: "Job Scout matching and scoring engine",
	Long:  "Job Scout scores a resume version against a corpus of job postings using two-stage semantic matching, producing per-job Fit, Want, and Overall scores with full breakdowns.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
