package weave

import "fmt"

// InputError indicates invalid caller input such as a malformed job URL.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ScrapeError indicates the job posting could not be retrieved or did not
// yield enough text to generate from.
type ScrapeError struct {
	URL   string
	Cause error
}

func (e *ScrapeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract job description from %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("failed to extract job description from %s", e.URL)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

// GenerationError indicates the generation provider returned a non-success
// response.
type GenerationError struct {
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError indicates the generated output could not be parsed
// or did not match the expected structure.
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed generation response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed generation response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// IncompleteResponseError indicates a parsed response missing required
// content fields.
type IncompleteResponseError struct {
	Missing []string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("incomplete generation response: missing %v", e.Missing)
}

// PersistenceError indicates the store rejected the weave insert.
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save weave: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
