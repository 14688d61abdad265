// Package weave orchestrates the generation of tailored application
// materials: profile aggregation, job description extraction, prompt
// construction, generation, response validation, and persistence.
package weave

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/llm"
)

// Sampling configuration for the weave generation call
const (
	generationTemperature = 0.7
	generationMaxTokens   = 4000
)

// MinJobDescriptionLength is the shortest extracted job text the pipeline
// will generate from.
const MinJobDescriptionLength = 50

// Store is the persistence surface the pipeline depends on.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	ListWorkExperiences(ctx context.Context, userID uuid.UUID) ([]db.WorkExperience, error)
	ListProjects(ctx context.Context, userID uuid.UUID) ([]db.Project, error)
	ListSkills(ctx context.Context, userID uuid.UUID) ([]db.Skill, error)
	CreateWeave(ctx context.Context, w *db.Weave) (uuid.UUID, error)
}

// Extractor retrieves plain-text job description content from a posting URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Pipeline produces one weave per invocation. It holds no per-request state
// and is safe for concurrent use.
type Pipeline struct {
	store     Store
	extractor Extractor
	client    llm.Client
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(store Store, extractor Extractor, client llm.Client) *Pipeline {
	return &Pipeline{
		store:     store,
		extractor: extractor,
		client:    client,
	}
}

// Generate runs the full pipeline for one job URL and returns the ID of the
// persisted weave. Exactly one weave row is created on success; none on any
// failure.
func (p *Pipeline) Generate(ctx context.Context, userID uuid.UUID, jobURL string) (uuid.UUID, error) {
	parsed, err := url.Parse(jobURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return uuid.Nil, &InputError{Field: "jobUrl", Message: "must be a valid absolute URL"}
	}

	profile := p.aggregateProfile(ctx, userID)

	jobDescription, err := p.extractor.Extract(ctx, jobURL)
	if err != nil {
		return uuid.Nil, &ScrapeError{URL: jobURL, Cause: err}
	}
	if len(jobDescription) < MinJobDescriptionLength {
		return uuid.Nil, &ScrapeError{URL: jobURL}
	}

	prompt := buildPrompt(profile.workHistory, profile.projects, profile.skillNames(), jobDescription)

	raw, err := p.client.GenerateText(ctx, prompt, llm.GenerateOptions{
		Temperature:     generationTemperature,
		MaxOutputTokens: generationMaxTokens,
	})
	if err != nil {
		return uuid.Nil, &GenerationError{Cause: err}
	}

	result, err := parseResult(raw)
	if err != nil {
		return uuid.Nil, err
	}

	weaveID, err := p.store.CreateWeave(ctx, &db.Weave{
		UserID:                     userID,
		JobURL:                     jobURL,
		JobTitle:                   result.JobTitle,
		CompanyName:                result.CompanyName,
		GeneratedResume:            result.Resume,
		GeneratedCoverLetter:       result.CoverLetter,
		GeneratedInterviewStrategy: result.InterviewStrategy,
	})
	if err != nil {
		return uuid.Nil, &PersistenceError{Cause: err}
	}

	return weaveID, nil
}

// profileData holds the aggregated candidate profile inputs.
type profileData struct {
	user        *db.User
	workHistory []db.WorkExperience
	projects    []db.Project
	skills      []db.Skill
}

func (d *profileData) skillNames() []string {
	names := make([]string, len(d.skills))
	for i, s := range d.skills {
		names[i] = s.SkillName
	}
	return names
}

// aggregateProfile fetches the caller's work history, projects, skills, and
// account record concurrently. Individual read failures degrade to empty
// inputs; the generation step tolerates a sparse profile.
func (p *Pipeline) aggregateProfile(ctx context.Context, userID uuid.UUID) *profileData {
	var data profileData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if rows, err := p.store.ListWorkExperiences(gctx, userID); err == nil {
			data.workHistory = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := p.store.ListProjects(gctx, userID); err == nil {
			data.projects = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := p.store.ListSkills(gctx, userID); err == nil {
			data.skills = rows
		}
		return nil
	})
	g.Go(func() error {
		if user, err := p.store.GetUser(gctx, userID); err == nil {
			data.user = user
		}
		return nil
	})
	_ = g.Wait()

	return &data
}
