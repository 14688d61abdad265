package weave

import (
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/llm"
)

// resultSchema is the JSON Schema the generated weave payload must satisfy.
// Structural violations are malformed responses; content emptiness is
// checked separately.
const resultSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"job_title": {"type": "string"},
		"company_name": {"type": "string"},
		"resume": {"type": "string"},
		"cover_letter": {"type": "string"},
		"interview_strategy": {
			"type": "object",
			"properties": {
				"behavioral_questions": {"type": "array", "items": {"type": "string"}},
				"technical_questions": {"type": "array", "items": {"type": "string"}},
				"key_talking_points": {"type": "array", "items": {"type": "string"}},
				"potential_weakness_to_address": {"type": "string"}
			}
		}
	}
}`

// Result is the parsed generation output for one weave.
type Result struct {
	JobTitle          string               `json:"job_title"`
	CompanyName       string               `json:"company_name"`
	Resume            string               `json:"resume"`
	CoverLetter       string               `json:"cover_letter"`
	InterviewStrategy db.InterviewStrategy `json:"interview_strategy"`
}

// parseResult normalizes and validates raw generation output. Fence-wrapped
// JSON is accepted; prose around the object is not.
func parseResult(raw string) (*Result, error) {
	cleaned := llm.CleanJSONBlock(raw)

	validation, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(resultSchema),
		gojsonschema.NewStringLoader(cleaned),
	)
	if err != nil {
		return nil, &MalformedResponseError{Message: "output is not valid JSON", Cause: err}
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, desc := range validation.Errors() {
			details = append(details, desc.String())
		}
		return nil, &MalformedResponseError{Message: "output does not match the expected structure: " + strings.Join(details, "; ")}
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, &MalformedResponseError{Message: "failed to decode output", Cause: err}
	}

	var missing []string
	if result.JobTitle == "" {
		missing = append(missing, "job_title")
	}
	if result.Resume == "" {
		missing = append(missing, "resume")
	}
	if result.CoverLetter == "" {
		missing = append(missing, "cover_letter")
	}
	if len(missing) > 0 {
		return nil, &IncompleteResponseError{Missing: missing}
	}

	return &result, nil
}
