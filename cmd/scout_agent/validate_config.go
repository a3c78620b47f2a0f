package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/schemas"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate a scoring config file",
	Long:  "Validates a scoring configuration JSON file against the scoring config schema, then loads it with defaults applied and runs semantic validation (clamp bounds, weight sums, non-negative facet and section weights).",
	RunE:  runValidateConfig,
}

var validateConfigInput string

func init() {
	validateConfigCmd.Flags().StringVarP(&validateConfigInput, "in", "i", "", "Path to scoring config JSON file (required)")

	if err := validateConfigCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateConfigCmd)
}

func runValidateConfig(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(validateConfigInput); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", validateConfigInput)
	}

	// Schema validation catches structural problems (unknown fields, wrong
	// types, out-of-range values) before defaults are merged in.
	schemaPath := schemas.ResolveSchemaPath("schemas/scoring_config.schema.json")
	if schemaPath != "" {
		if err := schemas.ValidateJSON(schemaPath, validateConfigInput); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				return fmt.Errorf("config does not match schema: %w", err)
			}
			_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate config against schema: %v\n", err)
		}
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: scoring config schema not found, skipping schema validation\n")
	}

	cfg, err := config.LoadScoringConfig(validateConfigInput)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Config is valid (version %s)\n", cfg.Version)
	_, _ = fmt.Fprintf(os.Stdout, "  similarity threshold: %g\n", cfg.SimilarityThreshold)
	_, _ = fmt.Fprintf(os.Stdout, "  top-k: %d, concurrency: %d\n", cfg.TopK, cfg.Concurrency)
	_, _ = fmt.Fprintf(os.Stdout, "  stage-1 mode: %s (%s pooling)\n", cfg.Stage1.Mode, cfg.Stage1.PoolingMethod)
	return nil
}
