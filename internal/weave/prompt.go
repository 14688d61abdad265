package weave

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/careerweave/careerweave/internal/db"
)

// buildPrompt constructs the single multi-agent generation prompt embedding
// the candidate's profile and the extracted job description. The response
// contract is one JSON object with a fixed structure and no surrounding
// prose.
func buildPrompt(workHistory []db.WorkExperience, projects []db.Project, skills []string, jobDescription string) string {
	workJSON := marshalProfileSection(workHistory)
	projectsJSON := marshalProfileSection(projects)
	skillsJSON := marshalProfileSection(skills)

	var sb strings.Builder
	sb.WriteString(`You are an expert career coaching system named "Career Weave". Your goal is to act as a committee of four AI agents to help a candidate land their dream job.

Candidate's Master Profile:
`)
	fmt.Fprintf(&sb, "Work History: %s\n", workJSON)
	fmt.Fprintf(&sb, "Projects: %s\n", projectsJSON)
	fmt.Fprintf(&sb, "Skills: %s\n", skillsJSON)
	sb.WriteString("\nTarget Job Description:\n")
	sb.WriteString(jobDescription)
	sb.WriteString(`

---
YOUR TASK (Act as the following agents in sequence and produce a single JSON output):

Agent 1 (Job Analyst): Analyze the "Target Job Description". Extract the job title, company name, top 5-7 most critical hard skills, soft skills, keywords, and key responsibilities. Create an "Ideal Candidate Profile" based on this analysis.

Agent 2 (Candidate Profiler): Compare the "Candidate's Master Profile" against the "Ideal Candidate Profile" created by Agent 1. Identify the most relevant experiences, projects, and skills the candidate possesses that directly match the job. Also, identify any potential gaps.

Agent 3 (Narrative Weaver): Based on the analysis from the first two agents, generate two documents:
A. Tailored Resume Content: Rewrite the candidate's work experience descriptions and project descriptions. Do not invent new experiences. Instead, rephrase and re-prioritize existing bullet points to directly address the keywords and responsibilities from the job description. The output must be in well-formatted, professional plain text.
B. Personalized Cover Letter: Write a compelling, 3-4 paragraph cover letter. The letter must tell a story, connecting the candidate's most relevant experiences (identified by Agent 2) to the company's specific needs (identified by Agent 1). It must be professional, engaging, and not generic.

Agent 4 (Interview Strategist): Based on all the above information, create an "Interview Strategy Guide". This guide must include:
- A list of 5 likely behavioral questions based on the job's soft skill requirements.
- A list of 5 likely technical or role-specific questions.
- 3 key talking points or stories from the candidate's profile they should prepare to discuss.
- An identification of one potential weakness or gap and a suggestion on how to address it if asked.

FINAL OUTPUT FORMAT:
Return ONLY a single, valid JSON object. Do not include any other text or markdown formatting. The JSON object must have this exact structure:
{
  "job_title": "...",
  "company_name": "...",
  "resume": "...",
  "cover_letter": "...",
  "interview_strategy": {
    "behavioral_questions": ["...", "..."],
    "technical_questions": ["...", "..."],
    "key_talking_points": ["...", "..."],
    "potential_weakness_to_address": "..."
  }
}`)

	return sb.String()
}

// marshalProfileSection serializes a profile slice for prompt embedding.
// A marshal failure degrades to an empty list rather than aborting the
// pipeline.
func marshalProfileSection(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return "[]"
	}
	return string(data)
}
