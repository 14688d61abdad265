package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents an account with its profile attributes
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize to JSON
	PasswordSet  bool      `json:"password_set" db:"password_set"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkExperience represents one employment history entry
type WorkExperience struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	StartDate   *Date     `json:"start_date,omitempty"`
	EndDate     *Date     `json:"end_date,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Project represents one portfolio project entry
type Project struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	ProjectTitle string    `json:"project_title"`
	Description  string    `json:"description"`
	ProjectURL   string    `json:"project_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Skill represents one skill entry
type Skill struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	SkillName string    `json:"skill_name"`
	CreatedAt time.Time `json:"created_at"`
}

// InterviewStrategy is the structured interview-preparation guide generated
// alongside each weave. Stored as JSONB.
type InterviewStrategy struct {
	BehavioralQuestions        []string `json:"behavioral_questions"`
	TechnicalQuestions         []string `json:"technical_questions"`
	KeyTalkingPoints           []string `json:"key_talking_points"`
	PotentialWeaknessToAddress string   `json:"potential_weakness_to_address"`
}

// Scan implements the Scanner interface for JSONB columns
func (s *InterviewStrategy) Scan(src interface{}) error {
	if src == nil {
		*s = InterviewStrategy{}
		return nil
	}
	source, ok := src.([]byte)
	if !ok {
		return errors.New("type assertion .([]byte) failed")
	}
	return json.Unmarshal(source, s)
}

// Value implements the Valuer interface for JSONB columns
func (s InterviewStrategy) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Weave is one generated bundle of application materials for a job posting.
// Rows are created exactly once by the generation pipeline and never mutated.
type Weave struct {
	ID                         uuid.UUID         `json:"id"`
	UserID                     uuid.UUID         `json:"user_id"`
	JobURL                     string            `json:"job_url"`
	JobTitle                   string            `json:"job_title"`
	CompanyName                string            `json:"company_name,omitempty"`
	GeneratedResume            string            `json:"generated_resume"`
	GeneratedCoverLetter       string            `json:"generated_cover_letter"`
	GeneratedInterviewStrategy InterviewStrategy `json:"generated_interview_strategy"`
	CreatedAt                  time.Time         `json:"created_at"`
}

// InterviewSession is one question/answer/feedback round within a weave's
// mock interview. UserAnswer and AIFeedback are nil until the round is
// answered; both are written together in a single update.
type InterviewSession struct {
	ID             uuid.UUID `json:"id"`
	WeaveID        uuid.UUID `json:"weave_id"`
	UserID         uuid.UUID `json:"user_id"`
	Question       string    `json:"question"`
	QuestionNumber int       `json:"question_number"`
	UserAnswer     *string   `json:"user_answer,omitempty"`
	AIFeedback     *string   `json:"ai_feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Answered reports whether this session round has been answered.
func (s *InterviewSession) Answered() bool {
	return s.UserAnswer != nil && *s.UserAnswer != ""
}

// Date is a custom type for handling SQL DATE (YYYY-MM-DD)
type Date struct {
	time.Time
}

// Scan implements the Scanner interface
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface
func (d *Date) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	// Trim quotes
	if len(str) > 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	var err error
	d.Time, err = time.Parse("2006-01-02", str)
	return err
}
