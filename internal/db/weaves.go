package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateWeave inserts one weave record and returns its ID
func (db *DB) CreateWeave(ctx context.Context, w *Weave) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO weaves (user_id, job_url, job_title, company_name, generated_resume, generated_cover_letter, generated_interview_strategy)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		w.UserID, w.JobURL, w.JobTitle, w.CompanyName, w.GeneratedResume, w.GeneratedCoverLetter, w.GeneratedInterviewStrategy,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create weave: %w", err)
	}
	return id, nil
}

// GetWeave retrieves a weave by ID scoped to its owner, returning nil when
// no row exists or the row belongs to another user
func (db *DB) GetWeave(ctx context.Context, id, userID uuid.UUID) (*Weave, error) {
	var w Weave
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_url, job_title, COALESCE(company_name, ''), generated_resume, generated_cover_letter, generated_interview_strategy, created_at
		 FROM weaves WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&w.ID, &w.UserID, &w.JobURL, &w.JobTitle, &w.CompanyName, &w.GeneratedResume, &w.GeneratedCoverLetter, &w.GeneratedInterviewStrategy, &w.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get weave: %w", err)
	}
	return &w, nil
}

// ListWeaves retrieves all weaves owned by a user, newest first
func (db *DB) ListWeaves(ctx context.Context, userID uuid.UUID) ([]Weave, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_url, job_title, COALESCE(company_name, ''), generated_resume, generated_cover_letter, generated_interview_strategy, created_at
		 FROM weaves WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weaves: %w", err)
	}
	defer rows.Close()

	var weaves []Weave
	for rows.Next() {
		var w Weave
		if err := rows.Scan(&w.ID, &w.UserID, &w.JobURL, &w.JobTitle, &w.CompanyName, &w.GeneratedResume, &w.GeneratedCoverLetter, &w.GeneratedInterviewStrategy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan weave: %w", err)
		}
		weaves = append(weaves, w)
	}
	return weaves, nil
}
