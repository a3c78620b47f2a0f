package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/job-scout/internal/types"
)

// MatchRecordStore persists match records keyed by
// (user_id, resume_version_id, job_id). It satisfies the pipeline's
// MatchStore interface.
type MatchRecordStore struct {
	db *DB
}

// MatchRecords returns the match-record store backed by this database.
func (db *DB) MatchRecords() *MatchRecordStore {
	return &MatchRecordStore{db: db}
}

// Upsert inserts or replaces the record for its (user, resume version,
// job) key. Re-scoring an existing pair overwrites the breakdowns and
// clears the stale flag; created_at survives the update.
func (s *MatchRecordStore) Upsert(ctx context.Context, record *types.MatchRecord) error {
	fitJSON, err := json.Marshal(record.Fit)
	if err != nil {
		return fmt.Errorf("failed to marshal fit breakdown: %w", err)
	}
	var wantJSON []byte
	if record.Want != nil {
		wantJSON, err = json.Marshal(record.Want)
		if err != nil {
			return fmt.Errorf("failed to marshal want breakdown: %w", err)
		}
	}
	matchesJSON, err := json.Marshal(record.RequirementMatches)
	if err != nil {
		return fmt.Errorf("failed to marshal requirement matches: %w", err)
	}

	err = s.db.pool.QueryRow(ctx,
		`INSERT INTO match_records (id, user_id, resume_version_id, job_id,
		                            fit_score, want_score, overall_score,
		                            fit_breakdown, want_breakdown, requirement_matches,
		                            config_version, stale)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)
		 ON CONFLICT (user_id, resume_version_id, job_id) DO UPDATE SET
		     fit_score = $5,
		     want_score = $6,
		     overall_score = $7,
		     fit_breakdown = $8,
		     want_breakdown = $9,
		     requirement_matches = $10,
		     config_version = $11,
		     stale = FALSE,
		     updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		record.ID, record.UserID, record.ResumeVersionID, record.JobID,
		record.FitScore, record.WantScore, record.OverallScore,
		fitJSON, wantJSON, matchesJSON,
		record.ConfigVersion,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match record: %w", err)
	}
	record.Stale = false
	return nil
}

// GetExisting retrieves the record for (user, resume version, job), or nil
// if none exists.
func (s *MatchRecordStore) GetExisting(ctx context.Context, userID, resumeVersionID, jobID uuid.UUID) (*types.MatchRecord, error) {
	var record types.MatchRecord
	var fitJSON, wantJSON, matchesJSON []byte

	err := s.db.pool.QueryRow(ctx,
		`SELECT id, user_id, resume_version_id, job_id,
		        fit_score, want_score, overall_score,
		        fit_breakdown, want_breakdown, requirement_matches,
		        config_version, stale, created_at, updated_at
		 FROM match_records
		 WHERE user_id = $1 AND resume_version_id = $2 AND job_id = $3`,
		userID, resumeVersionID, jobID,
	).Scan(&record.ID, &record.UserID, &record.ResumeVersionID, &record.JobID,
		&record.FitScore, &record.WantScore, &record.OverallScore,
		&fitJSON, &wantJSON, &matchesJSON,
		&record.ConfigVersion, &record.Stale, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match record: %w", err)
	}

	if err := json.Unmarshal(fitJSON, &record.Fit); err != nil {
		return nil, fmt.Errorf("failed to parse fit breakdown: %w", err)
	}
	if len(wantJSON) > 0 {
		record.Want = &types.WantScoreBreakdown{}
		if err := json.Unmarshal(wantJSON, record.Want); err != nil {
			return nil, fmt.Errorf("failed to parse want breakdown: %w", err)
		}
	}
	if len(matchesJSON) > 0 {
		if err := json.Unmarshal(matchesJSON, &record.RequirementMatches); err != nil {
			return nil, fmt.Errorf("failed to parse requirement matches: %w", err)
		}
	}

	return &record, nil
}

// ListByResumeVersion retrieves a user's records for one resume version,
// best overall first.
func (s *MatchRecordStore) ListByResumeVersion(ctx context.Context, userID, resumeVersionID uuid.UUID, limit int) ([]types.MatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.pool.Query(ctx,
		`SELECT id, user_id, resume_version_id, job_id,
		        fit_score, want_score, overall_score,
		        config_version, stale, created_at, updated_at
		 FROM match_records
		 WHERE user_id = $1 AND resume_version_id = $2
		 ORDER BY overall_score DESC, job_id ASC
		 LIMIT $3`,
		userID, resumeVersionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}
	defer rows.Close()

	var records []types.MatchRecord
	for rows.Next() {
		var record types.MatchRecord
		if err := rows.Scan(&record.ID, &record.UserID, &record.ResumeVersionID, &record.JobID,
			&record.FitScore, &record.WantScore, &record.OverallScore,
			&record.ConfigVersion, &record.Stale, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// MarkStaleForResumeVersion flags every record scored against a resume
// version whose content changed. Records are never deleted; stale rows are
// rewritten by the next scoring run.
func (s *MatchRecordStore) MarkStaleForResumeVersion(ctx context.Context, resumeVersionID uuid.UUID) (int64, error) {
	result, err := s.db.pool.Exec(ctx,
		`UPDATE match_records SET stale = TRUE, updated_at = NOW()
		 WHERE resume_version_id = $1 AND NOT stale`,
		resumeVersionID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark records stale: %w", err)
	}
	return result.RowsAffected(), nil
}

// MarkStaleForJob flags every record scored against a job posting whose
// content changed.
func (s *MatchRecordStore) MarkStaleForJob(ctx context.Context, jobID uuid.UUID) (int64, error) {
	result, err := s.db.pool.Exec(ctx,
		`UPDATE match_records SET stale = TRUE, updated_at = NOW()
		 WHERE job_id = $1 AND NOT stale`,
		jobID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark records stale: %w", err)
	}
	return result.RowsAffected(), nil
}

// HashContent generates a SHA-256 hash of extracted content. Stored next
// to jobs and resume versions, a changed hash is the trigger for marking
// dependent match records stale.
func HashContent(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
