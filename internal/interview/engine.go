// Package interview drives the mock interview flow for a weave: one-time
// question generation, idempotent resume, per-answer feedback, and
// progression through a fixed sequence of rounds.
package interview

import (
	"context"

	"github.com/google/uuid"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/llm"
)

// TotalQuestions is the fixed number of rounds per interview.
const TotalQuestions = 5

// Sampling configuration per generation call site
const (
	questionTemperature = 0.8
	questionMaxTokens   = 1000
	feedbackTemperature = 0.7
	feedbackMaxTokens   = 500
)

// Store is the persistence surface the engine depends on.
type Store interface {
	GetWeave(ctx context.Context, id, userID uuid.UUID) (*db.Weave, error)
	ListInterviewSessions(ctx context.Context, weaveID, userID uuid.UUID) ([]db.InterviewSession, error)
	CreateInterviewSessions(ctx context.Context, weaveID, userID uuid.UUID, questions []string) ([]db.InterviewSession, error)
	GetInterviewSession(ctx context.Context, id, userID uuid.UUID) (*db.InterviewSession, error)
	AnswerInterviewSession(ctx context.Context, id uuid.UUID, answer, feedback string) (bool, error)
	NextInterviewSession(ctx context.Context, weaveID uuid.UUID, afterNumber int) (*db.InterviewSession, error)
}

// Engine coordinates interview rounds for weaves. It holds no per-request
// state and is safe for concurrent use.
type Engine struct {
	store  Store
	client llm.Client
}

// NewEngine creates an Engine over the given collaborators.
func NewEngine(store Store, client llm.Client) *Engine {
	return &Engine{
		store:  store,
		client: client,
	}
}

// StartResult is the outcome of StartOrResume. When Completed is true only
// TotalQuestions is meaningful; otherwise the current question is returned.
type StartResult struct {
	Completed      bool      `json:"-"`
	SessionID      uuid.UUID `json:"sessionId,omitempty"`
	Question       string    `json:"question,omitempty"`
	QuestionNumber int       `json:"questionNumber,omitempty"`
	TotalQuestions int       `json:"totalQuestions"`
}

// NextQuestion identifies the round that follows a submitted answer.
type NextQuestion struct {
	SessionID      uuid.UUID `json:"sessionId"`
	Question       string    `json:"question"`
	QuestionNumber int       `json:"questionNumber"`
}

// AnswerResult is the outcome of SubmitAnswer. Next is nil when the
// interview is complete.
type AnswerResult struct {
	Feedback string        `json:"feedback"`
	Next     *NextQuestion `json:"nextQuestion"`
}

// StartOrResume begins the interview for a weave or resumes it at the first
// unanswered question. The first call generates and persists all questions
// atomically; repeat calls replay the current question without regenerating.
// Question generation never fails outright: unusable output substitutes a
// fixed fallback set.
func (e *Engine) StartOrResume(ctx context.Context, weaveID, userID uuid.UUID) (*StartResult, error) {
	weave, err := e.store.GetWeave(ctx, weaveID, userID)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if weave == nil {
		return nil, &NotFoundError{Resource: "weave", ID: weaveID}
	}

	existing, err := e.store.ListInterviewSessions(ctx, weaveID, userID)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if len(existing) > 0 {
		for i := range existing {
			if !existing[i].Answered() {
				return &StartResult{
					SessionID:      existing[i].ID,
					Question:       existing[i].Question,
					QuestionNumber: existing[i].QuestionNumber,
					TotalQuestions: len(existing),
				}, nil
			}
		}
		return &StartResult{Completed: true, TotalQuestions: len(existing)}, nil
	}

	questions := fallbackQuestions
	raw, err := e.client.GenerateText(ctx, buildQuestionPrompt(weave), llm.GenerateOptions{
		Temperature:     questionTemperature,
		MaxOutputTokens: questionMaxTokens,
	})
	if err == nil {
		questions = parseQuestions(raw)
	}

	sessions, err := e.store.CreateInterviewSessions(ctx, weaveID, userID, questions)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}

	first := sessions[0]
	return &StartResult{
		SessionID:      first.ID,
		Question:       first.Question,
		QuestionNumber: first.QuestionNumber,
		TotalQuestions: len(sessions),
	}, nil
}

// SubmitAnswer records an answer with generated feedback and returns the
// next question, or a nil next question when the interview is complete. The
// session row is only written after feedback generation succeeds, so a
// failed attempt leaves the round unanswered and retryable.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, userID uuid.UUID, answer string) (*AnswerResult, error) {
	if answer == "" {
		return nil, &InputError{Field: "answer", Message: "must not be empty"}
	}

	session, err := e.store.GetInterviewSession(ctx, sessionID, userID)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if session == nil {
		return nil, &NotFoundError{Resource: "session", ID: sessionID}
	}
	if session.Answered() {
		return nil, &ConflictError{SessionID: sessionID}
	}

	feedback, err := e.client.GenerateText(ctx, buildFeedbackPrompt(session.Question, answer), llm.GenerateOptions{
		Temperature:     feedbackTemperature,
		MaxOutputTokens: feedbackMaxTokens,
	})
	if err != nil {
		return nil, &GenerationError{Cause: err}
	}

	updated, err := e.store.AnswerInterviewSession(ctx, sessionID, answer, feedback)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}
	if !updated {
		// Lost a race with a concurrent submission to the same session
		return nil, &ConflictError{SessionID: sessionID}
	}

	next, err := e.store.NextInterviewSession(ctx, session.WeaveID, session.QuestionNumber)
	if err != nil {
		return nil, &PersistenceError{Cause: err}
	}

	result := &AnswerResult{Feedback: feedback}
	if next != nil {
		result.Next = &NextQuestion{
			SessionID:      next.ID,
			Question:       next.Question,
			QuestionNumber: next.QuestionNumber,
		}
	}
	return result, nil
}
