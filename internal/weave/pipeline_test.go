package weave

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/llm"
)

type fakeStore struct {
	user            *db.User
	workExperiences []db.WorkExperience
	projects        []db.Project
	skills          []db.Skill

	createdWeaves []db.Weave
	createErr     error
	listErr       error
}

func (s *fakeStore) GetUser(_ context.Context, _ uuid.UUID) (*db.User, error) {
	return s.user, nil
}

func (s *fakeStore) ListWorkExperiences(_ context.Context, _ uuid.UUID) ([]db.WorkExperience, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.workExperiences, nil
}

func (s *fakeStore) ListProjects(_ context.Context, _ uuid.UUID) ([]db.Project, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.projects, nil
}

func (s *fakeStore) ListSkills(_ context.Context, _ uuid.UUID) ([]db.Skill, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.skills, nil
}

func (s *fakeStore) CreateWeave(_ context.Context, w *db.Weave) (uuid.UUID, error) {
	if s.createErr != nil {
		return uuid.Nil, s.createErr
	}
	id := uuid.New()
	stored := *w
	stored.ID = id
	s.createdWeaves = append(s.createdWeaves, stored)
	return id, nil
}

type fakeExtractor struct {
	text string
	err  error
	urls []string
}

func (e *fakeExtractor) Extract(_ context.Context, url string) (string, error) {
	e.urls = append(e.urls, url)
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

type fakeClient struct {
	response string
	err      error
	prompts  []string
	opts     []llm.GenerateOptions
}

func (c *fakeClient) GenerateText(_ context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	c.prompts = append(c.prompts, prompt)
	c.opts = append(c.opts, opts)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeClient) Close() error { return nil }

const validResponse = `{
	"job_title": "Senior Backend Engineer",
	"company_name": "Acme Corp",
	"resume": "Tailored resume content here.",
	"cover_letter": "Dear hiring team, ...",
	"interview_strategy": {
		"behavioral_questions": ["Tell me about a conflict you resolved."],
		"technical_questions": ["How does a connection pool work?"],
		"key_talking_points": ["Scaled the ingest service to 10x traffic."],
		"potential_weakness_to_address": "Limited exposure to frontend work."
	}
}`

func jobText() string {
	return strings.Repeat("Design and operate backend services in Go. ", 15)
}

func newTestPipeline(store *fakeStore, extractor *fakeExtractor, client *fakeClient) *Pipeline {
	return NewPipeline(store, extractor, client)
}

func TestGenerate_Success(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{
		user: &db.User{ID: userID, Name: "Ada", Email: "ada@example.com"},
		workExperiences: []db.WorkExperience{
			{JobTitle: "Backend Engineer", CompanyName: "Initech", Description: "Built APIs"},
			{JobTitle: "SRE", CompanyName: "Globex"},
		},
		projects: []db.Project{{ProjectTitle: "Ingest pipeline", Description: "Streaming ETL"}},
		skills: []db.Skill{
			{SkillName: "Go"}, {SkillName: "PostgreSQL"}, {SkillName: "Kubernetes"},
		},
	}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	weaveID, err := newTestPipeline(store, extractor, client).Generate(context.Background(), userID, "https://example.com/job123")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, weaveID)

	require.Len(t, store.createdWeaves, 1)
	created := store.createdWeaves[0]
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "https://example.com/job123", created.JobURL)
	assert.Equal(t, "Senior Backend Engineer", created.JobTitle)
	assert.Equal(t, "Acme Corp", created.CompanyName)
	assert.NotEmpty(t, created.GeneratedResume)
	assert.NotEmpty(t, created.GeneratedCoverLetter)
	assert.Len(t, created.GeneratedInterviewStrategy.BehavioralQuestions, 1)
	assert.NotEmpty(t, created.GeneratedInterviewStrategy.PotentialWeaknessToAddress)
}

func TestGenerate_PromptEmbedsProfileAndJob(t *testing.T) {
	store := &fakeStore{
		workExperiences: []db.WorkExperience{{JobTitle: "Backend Engineer", CompanyName: "Initech"}},
		projects:        []db.Project{{ProjectTitle: "Ingest pipeline"}},
		skills:          []db.Skill{{SkillName: "Go"}, {SkillName: "PostgreSQL"}},
	}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Backend Engineer")
	assert.Contains(t, prompt, "Ingest pipeline")
	assert.Contains(t, prompt, `"Go"`)
	assert.Contains(t, prompt, "PostgreSQL")
	assert.Contains(t, prompt, "backend services in Go")
	assert.Contains(t, prompt, "Agent 4 (Interview Strategist)")

	require.Len(t, client.opts, 1)
	assert.InDelta(t, 0.7, client.opts[0].Temperature, 0.001)
	assert.Equal(t, int32(4000), client.opts[0].MaxOutputTokens)
}

func TestGenerate_EmptyProfileStillGenerates(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "Work History: []")
	assert.Contains(t, client.prompts[0], "Skills: []")
}

func TestGenerate_ProfileReadFailuresTolerated(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection reset")}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.NoError(t, err)
	assert.Len(t, store.createdWeaves, 1)
}

func TestGenerate_InvalidURL(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	for _, jobURL := range []string{"", "not a url", "/relative/path", "example.com/job"} {
		_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), jobURL)
		require.Error(t, err, "url %q", jobURL)

		var inputErr *InputError
		assert.ErrorAs(t, err, &inputErr)
	}
	assert.Empty(t, extractor.urls, "extraction must not run for invalid URLs")
	assert.Empty(t, store.createdWeaves)
}

func TestGenerate_ScrapeFailureAbortsBeforeGeneration(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{err: errors.New("HTTP status 403")}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var scrapeErr *ScrapeError
	assert.ErrorAs(t, err, &scrapeErr)
	assert.Empty(t, client.prompts, "generation must not run after scrape failure")
	assert.Empty(t, store.createdWeaves)
}

func TestGenerate_ShortJobTextFails(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: "too short"}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var scrapeErr *ScrapeError
	assert.ErrorAs(t, err, &scrapeErr)
	assert.Empty(t, client.prompts)
}

func TestGenerate_GenerationFailure(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{err: errors.New("no candidates in response")}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Empty(t, store.createdWeaves, "no row may be written on generation failure")
}

func TestGenerate_MalformedResponse(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: "Here is your resume! It went great."}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var malformedErr *MalformedResponseError
	assert.ErrorAs(t, err, &malformedErr)
	assert.Empty(t, store.createdWeaves)
}

func TestGenerate_FencedResponseAccepted(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: "```json\n" + validResponse + "\n```"}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.NoError(t, err)
	require.Len(t, store.createdWeaves, 1)
	assert.Equal(t, "Senior Backend Engineer", store.createdWeaves[0].JobTitle)
}

func TestGenerate_IncompleteResponse(t *testing.T) {
	store := &fakeStore{}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: `{"job_title": "Engineer", "resume": "", "cover_letter": "Dear team"}`}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var incompleteErr *IncompleteResponseError
	require.ErrorAs(t, err, &incompleteErr)
	assert.Equal(t, []string{"resume"}, incompleteErr.Missing)
	assert.Empty(t, store.createdWeaves)
}

func TestGenerate_PersistenceFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("insert rejected")}
	extractor := &fakeExtractor{text: jobText()}
	client := &fakeClient{response: validResponse}

	_, err := newTestPipeline(store, extractor, client).Generate(context.Background(), uuid.New(), "https://example.com/job")
	require.Error(t, err)

	var persistErr *PersistenceError
	assert.ErrorAs(t, err, &persistErr)
}

func TestParseResult_MissingFieldsIncomplete(t *testing.T) {
	_, err := parseResult(`{}`)
	require.Error(t, err)

	var incompleteErr *IncompleteResponseError
	require.ErrorAs(t, err, &incompleteErr)
	assert.Equal(t, []string{"job_title", "resume", "cover_letter"}, incompleteErr.Missing)
}

func TestParseResult_SchemaViolations(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"job_title wrong type", `{"job_title": 42, "resume": "r", "cover_letter": "c"}`},
		{"strategy wrong shape", `{"job_title": "t", "resume": "r", "cover_letter": "c", "interview_strategy": "none"}`},
		{"array instead of object", `["job_title", "resume"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseResult(tt.input)
			require.Error(t, err)

			var malformedErr *MalformedResponseError
			assert.ErrorAs(t, err, &malformedErr)
		})
	}
}
