package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Work Experience Methods
// -----------------------------------------------------------------------------

// ListWorkExperiences retrieves all work experiences owned by a user,
// most recent start date first
func (db *DB) ListWorkExperiences(ctx context.Context, userID uuid.UUID) ([]WorkExperience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_title, company_name, start_date, end_date, COALESCE(description, ''), created_at
		 FROM work_experiences WHERE user_id = $1
		 ORDER BY start_date DESC NULLS LAST, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list work experiences: %w", err)
	}
	defer rows.Close()

	var experiences []WorkExperience
	for rows.Next() {
		var e WorkExperience
		if err := rows.Scan(&e.ID, &e.UserID, &e.JobTitle, &e.CompanyName, &e.StartDate, &e.EndDate, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		experiences = append(experiences, e)
	}
	return experiences, nil
}

// CreateWorkExperience inserts a work experience and returns its ID
func (db *DB) CreateWorkExperience(ctx context.Context, e *WorkExperience) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO work_experiences (user_id, job_title, company_name, start_date, end_date, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		e.UserID, e.JobTitle, e.CompanyName, e.StartDate, e.EndDate, e.Description,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create work experience: %w", err)
	}
	return id, nil
}

// UpdateWorkExperience updates a work experience owned by the given user
func (db *DB) UpdateWorkExperience(ctx context.Context, e *WorkExperience) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE work_experiences
		 SET job_title = $1, company_name = $2, start_date = $3, end_date = $4, description = $5
		 WHERE id = $6 AND user_id = $7`,
		e.JobTitle, e.CompanyName, e.StartDate, e.EndDate, e.Description, e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work experience: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work experience not found: %s", e.ID)
	}
	return nil
}

// DeleteWorkExperience deletes a work experience owned by the given user
func (db *DB) DeleteWorkExperience(ctx context.Context, id, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM work_experiences WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete work experience: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("work experience not found: %s", id)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Project Methods
// -----------------------------------------------------------------------------

// ListProjects retrieves all projects owned by a user
func (db *DB) ListProjects(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, project_title, description, COALESCE(project_url, ''), created_at
		 FROM projects WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProjectTitle, &p.Description, &p.ProjectURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// CreateProject inserts a project and returns its ID
func (db *DB) CreateProject(ctx context.Context, p *Project) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO projects (user_id, project_title, description, project_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		p.UserID, p.ProjectTitle, p.Description, p.ProjectURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create project: %w", err)
	}
	return id, nil
}

// UpdateProject updates a project owned by the given user
func (db *DB) UpdateProject(ctx context.Context, p *Project) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE projects
		 SET project_title = $1, description = $2, project_url = $3
		 WHERE id = $4 AND user_id = $5`,
		p.ProjectTitle, p.Description, p.ProjectURL, p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", p.ID)
	}
	return nil
}

// DeleteProject deletes a project owned by the given user
func (db *DB) DeleteProject(ctx context.Context, id, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Skill Methods
// -----------------------------------------------------------------------------

// ListSkills retrieves all skills owned by a user
func (db *DB) ListSkills(ctx context.Context, userID uuid.UUID) ([]Skill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, skill_name, created_at
		 FROM skills WHERE user_id = $1 ORDER BY skill_name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.UserID, &s.SkillName, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

// CreateSkill inserts a skill and returns its ID
func (db *DB) CreateSkill(ctx context.Context, s *Skill) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skills (user_id, skill_name)
		 VALUES ($1, $2)
		 RETURNING id`,
		s.UserID, s.SkillName,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create skill: %w", err)
	}
	return id, nil
}

// DeleteSkill deletes a skill owned by the given user
func (db *DB) DeleteSkill(ctx context.Context, id, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM skills WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("skill not found: %s", id)
	}
	return nil
}
