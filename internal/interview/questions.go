package interview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/llm"
)

// fallbackQuestions are substituted whenever question generation does not
// yield exactly five usable questions. Starting an interview never fails on
// the generation path.
var fallbackQuestions = []string{
	"Tell me about yourself and why you're interested in this position.",
	"What relevant experience do you have for this role?",
	"Describe a challenging project you've worked on and how you overcame obstacles.",
	"How do you stay current with industry trends and technologies?",
	"Why do you want to work for our company?",
}

// buildQuestionPrompt asks for exactly five questions covering five fixed
// facets, returned as a bare JSON array of strings.
func buildQuestionPrompt(weave *db.Weave) string {
	var sb strings.Builder
	sb.WriteString("You are a professional hiring manager for the role of ")
	sb.WriteString(weave.JobTitle)
	if weave.CompanyName != "" {
		fmt.Fprintf(&sb, " at %s", weave.CompanyName)
	}
	sb.WriteString(`. Based on the following job context, generate 5 unique interview questions for a candidate. Return the output as a clean JSON array of strings: ["question 1", "question 2", "question 3", "question 4", "question 5"].

Job Context:
`)
	fmt.Fprintf(&sb, "Title: %s\n", weave.JobTitle)
	company := weave.CompanyName
	if company == "" {
		company = "Not specified"
	}
	fmt.Fprintf(&sb, "Company: %s\n", company)
	sb.WriteString(`
Generate questions that cover:
1. Experience and background
2. Technical skills related to the role
3. Problem-solving abilities
4. Cultural fit and motivation
5. Situational/behavioral scenarios

Return ONLY the JSON array, no other text.`)

	return sb.String()
}

// parseQuestions extracts a list of exactly TotalQuestions questions from
// raw generation output, falling back to the built-in set on any mismatch.
func parseQuestions(raw string) []string {
	cleaned := llm.CleanJSONBlock(raw)

	var questions []string
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return fallbackQuestions
	}
	if len(questions) != TotalQuestions {
		return fallbackQuestions
	}
	for _, q := range questions {
		if strings.TrimSpace(q) == "" {
			return fallbackQuestions
		}
	}
	return questions
}

// buildFeedbackPrompt asks for short constructive feedback on one answer.
func buildFeedbackPrompt(question, answer string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional interviewer providing feedback.\n")
	fmt.Fprintf(&sb, "The interview question was: %q\n", question)
	fmt.Fprintf(&sb, "The candidate's answer is: %q\n", answer)
	sb.WriteString(`
Write concise, constructive feedback from an interviewer's perspective in 3-4 sentences. Focus on:
- What the candidate did well
- Areas for improvement
- Specific suggestions for a stronger answer

Keep the feedback professional, helpful, and encouraging.`)

	return sb.String()
}
