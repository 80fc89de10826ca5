package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/draft-assistant/internal/ingestion"
)

// SaveJobPosting stores an ingested posting, replacing any earlier fetch of
// the same URL.
func (db *DB) SaveJobPosting(ctx context.Context, userID uuid.UUID, posting *ingestion.JobPosting) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO job_postings (user_id, job_id, url, title, company, description, content_hash, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (user_id, job_id) DO UPDATE SET
			url = EXCLUDED.url,
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			description = EXCLUDED.description,
			content_hash = EXCLUDED.content_hash,
			fetched_at = EXCLUDED.fetched_at`,
		userID, ingestion.JobID(posting.URL), posting.URL, posting.Title,
		posting.Company, posting.Description, posting.Hash, posting.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save job posting: %w", err)
	}
	return nil
}

// GetJobPosting retrieves a stored posting by its derived job id. Returns
// (nil, nil) when not found.
func (db *DB) GetJobPosting(ctx context.Context, userID uuid.UUID, jobID string) (*ingestion.JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT url, title, company, description, content_hash, fetched_at
		 FROM job_postings WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	)

	var posting ingestion.JobPosting
	err := row.Scan(&posting.URL, &posting.Title, &posting.Company,
		&posting.Description, &posting.Hash, &posting.FetchedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &posting, nil
}
