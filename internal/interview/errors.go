package interview

import (
	"fmt"

	"github.com/google/uuid"
)

// InputError indicates invalid caller input such as an empty answer.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError indicates the referenced row does not exist or is not owned
// by the caller.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError indicates an answer was submitted to a session that is
// already answered.
type ConflictError struct {
	SessionID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session %s is already answered", e.SessionID)
}

// GenerationError indicates the generation provider returned a non-success
// response for a feedback call.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// PersistenceError indicates the store rejected a session write.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save interview session: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
