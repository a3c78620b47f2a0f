package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-scout/internal/types"
)

// CorpusStore loads the scoring inputs: job postings with their extracted
// requirement units and facet embeddings, resume evidence units, and user
// want embeddings. The extraction collaborator writes these tables; the
// engine only reads them.
type CorpusStore struct {
	db *DB
}

// Corpus returns the corpus store backed by this database.
func (db *DB) Corpus() *CorpusStore {
	return &CorpusStore{db: db}
}

// LoadJobPostings retrieves postings by ID, each with its requirement
// units (ordinal order) and facet embeddings. An empty ID list loads every
// active posting.
func (s *CorpusStore) LoadJobPostings(ctx context.Context, jobIDs []uuid.UUID) ([]types.JobPosting, error) {
	query := `SELECT id, company, title, summary_embedding
	          FROM job_postings WHERE active`
	args := []any{}
	if len(jobIDs) > 0 {
		query += ` AND id = ANY($1)`
		args = append(args, jobIDs)
	}
	query += ` ORDER BY id`

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load job postings: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobPosting
	for rows.Next() {
		var job types.JobPosting
		var summary []float64
		if err := rows.Scan(&job.ID, &job.Company, &job.Title, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		job.SummaryEmbedding = types.EmbeddingVector(summary)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job postings: %w", err)
	}

	for i := range jobs {
		if jobs[i].Requirements, err = s.loadRequirements(ctx, jobs[i].ID); err != nil {
			return nil, err
		}
		if jobs[i].Facets, err = s.loadFacets(ctx, jobs[i].ID); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

// LoadJobPosting retrieves one posting with requirements and facets, or
// nil if it does not exist.
func (s *CorpusStore) LoadJobPosting(ctx context.Context, jobID uuid.UUID) (*types.JobPosting, error) {
	var job types.JobPosting
	var summary []float64

	err := s.db.pool.QueryRow(ctx,
		`SELECT id, company, title, summary_embedding
		 FROM job_postings WHERE id = $1`,
		jobID,
	).Scan(&job.ID, &job.Company, &job.Title, &summary)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load job posting: %w", err)
	}
	job.SummaryEmbedding = types.EmbeddingVector(summary)

	if job.Requirements, err = s.loadRequirements(ctx, job.ID); err != nil {
		return nil, err
	}
	if job.Facets, err = s.loadFacets(ctx, job.ID); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *CorpusStore) loadRequirements(ctx context.Context, jobID uuid.UUID) ([]types.RequirementUnit, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, job_id, kind, text, embedding, ordinal, tags
		 FROM requirement_units
		 WHERE job_id = $1
		 ORDER BY ordinal`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load requirement units: %w", err)
	}
	defer rows.Close()

	var units []types.RequirementUnit
	for rows.Next() {
		var unit types.RequirementUnit
		var embedding []float64
		var tagsJSON []byte
		if err := rows.Scan(&unit.ID, &unit.JobID, &unit.Kind, &unit.Text,
			&embedding, &unit.Ordinal, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan requirement unit: %w", err)
		}
		unit.Embedding = types.EmbeddingVector(embedding)
		if len(tagsJSON) > 0 {
			_ = json.Unmarshal(tagsJSON, &unit.Tags)
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func (s *CorpusStore) loadFacets(ctx context.Context, jobID uuid.UUID) ([]types.JobFacet, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT key, embedding
		 FROM job_facets
		 WHERE job_id = $1
		 ORDER BY key`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load job facets: %w", err)
	}
	defer rows.Close()

	var facets []types.JobFacet
	for rows.Next() {
		var facet types.JobFacet
		var embedding []float64
		if err := rows.Scan(&facet.Key, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan job facet: %w", err)
		}
		facet.Embedding = types.EmbeddingVector(embedding)
		facets = append(facets, facet)
	}
	return facets, rows.Err()
}

// LoadEvidenceUnits retrieves every evidence unit for one resume version,
// in ordinal order.
func (s *CorpusStore) LoadEvidenceUnits(ctx context.Context, resumeVersionID uuid.UUID) ([]types.EvidenceUnit, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, resume_version_id, text, embedding, section, ordinal, tags, provenance
		 FROM evidence_units
		 WHERE resume_version_id = $1
		 ORDER BY ordinal`,
		resumeVersionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load evidence units: %w", err)
	}
	defer rows.Close()

	var units []types.EvidenceUnit
	for rows.Next() {
		var unit types.EvidenceUnit
		var embedding []float64
		var tagsJSON []byte
		var provenance *string
		if err := rows.Scan(&unit.ID, &unit.ResumeVersionID, &unit.Text,
			&embedding, &unit.Section, &unit.Ordinal, &tagsJSON, &provenance); err != nil {
			return nil, fmt.Errorf("failed to scan evidence unit: %w", err)
		}
		unit.Embedding = types.EmbeddingVector(embedding)
		if len(tagsJSON) > 0 {
			_ = json.Unmarshal(tagsJSON, &unit.Tags)
		}
		if provenance != nil {
			unit.Provenance = *provenance
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

// LoadWants retrieves a user's preference embeddings in ordinal order.
func (s *CorpusStore) LoadWants(ctx context.Context, userID uuid.UUID) ([]types.EmbeddingVector, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT embedding
		 FROM user_wants
		 WHERE user_id = $1
		 ORDER BY ordinal`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load wants: %w", err)
	}
	defer rows.Close()

	var wants []types.EmbeddingVector
	for rows.Next() {
		var embedding []float64
		if err := rows.Scan(&embedding); err != nil {
			return nil, fmt.Errorf("failed to scan want embedding: %w", err)
		}
		wants = append(wants, types.EmbeddingVector(embedding))
	}
	return wants, rows.Err()
}
