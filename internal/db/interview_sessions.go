package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateInterviewSessions inserts one session row per question in a single
// transaction, numbered 1..len(questions). Either all rows are created or
// none are. Returns the created rows ordered by question number.
func (db *DB) CreateInterviewSessions(ctx context.Context, weaveID, userID uuid.UUID, questions []string) ([]InterviewSession, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions to insert")
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sessions := make([]InterviewSession, 0, len(questions))
	for i, question := range questions {
		var s InterviewSession
		err := tx.QueryRow(ctx,
			`INSERT INTO interview_sessions (weave_id, user_id, question, question_number)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, weave_id, user_id, question, question_number, user_answer, ai_feedback, created_at`,
			weaveID, userID, question, i+1,
		).Scan(&s.ID, &s.WeaveID, &s.UserID, &s.Question, &s.QuestionNumber, &s.UserAnswer, &s.AIFeedback, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert interview session %d: %w", i+1, err)
		}
		sessions = append(sessions, s)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit interview sessions: %w", err)
	}
	return sessions, nil
}

// ListInterviewSessions retrieves all sessions for a weave scoped to its
// owner, ordered by question number
func (db *DB) ListInterviewSessions(ctx context.Context, weaveID, userID uuid.UUID) ([]InterviewSession, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, weave_id, user_id, question, question_number, user_answer, ai_feedback, created_at
		 FROM interview_sessions WHERE weave_id = $1 AND user_id = $2
		 ORDER BY question_number`,
		weaveID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list interview sessions: %w", err)
	}
	defer rows.Close()

	var sessions []InterviewSession
	for rows.Next() {
		var s InterviewSession
		if err := rows.Scan(&s.ID, &s.WeaveID, &s.UserID, &s.Question, &s.QuestionNumber, &s.UserAnswer, &s.AIFeedback, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

// GetInterviewSession retrieves a session by ID scoped to its owner,
// returning nil when no row exists
func (db *DB) GetInterviewSession(ctx context.Context, id, userID uuid.UUID) (*InterviewSession, error) {
	var s InterviewSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, weave_id, user_id, question, question_number, user_answer, ai_feedback, created_at
		 FROM interview_sessions WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&s.ID, &s.WeaveID, &s.UserID, &s.Question, &s.QuestionNumber, &s.UserAnswer, &s.AIFeedback, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview session: %w", err)
	}
	return &s, nil
}

// AnswerInterviewSession writes the answer and feedback onto an unanswered
// session in a single update. Returns false when the session was already
// answered (or does not exist), leaving the row untouched.
func (db *DB) AnswerInterviewSession(ctx context.Context, id uuid.UUID, answer, feedback string) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET user_answer = $1, ai_feedback = $2
		 WHERE id = $3 AND user_answer IS NULL`,
		answer, feedback, id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to answer interview session: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// NextInterviewSession retrieves the session with the lowest question number
// strictly greater than afterNumber for a weave, or nil when the interview
// is complete
func (db *DB) NextInterviewSession(ctx context.Context, weaveID uuid.UUID, afterNumber int) (*InterviewSession, error) {
	var s InterviewSession
	err := db.pool.QueryRow(ctx,
		`SELECT id, weave_id, user_id, question, question_number, user_answer, ai_feedback, created_at
		 FROM interview_sessions WHERE weave_id = $1 AND question_number > $2
		 ORDER BY question_number LIMIT 1`,
		weaveID, afterNumber,
	).Scan(&s.ID, &s.WeaveID, &s.UserID, &s.Question, &s.QuestionNumber, &s.UserAnswer, &s.AIFeedback, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next interview session: %w", err)
	}
	return &s, nil
}
