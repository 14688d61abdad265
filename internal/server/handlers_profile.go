package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/server/middleware"
)

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" {
		s.errorResponse(w, http.StatusBadRequest, "Name and Email are required")
		return
	}

	user := &db.User{ID: userID, Name: req.Name, Email: req.Email}
	if err := s.db.UpdateUser(r.Context(), user); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// isNotFound matches the row-missing errors the db package produces on
// updates and deletes scoped to an owner.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}

// ---------------------------------------------------------------------
// Work Experience Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListWorkExperiences(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	experiences, err := s.db.ListWorkExperiences(r.Context(), userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"work_experiences": experiences,
		"count":            len(experiences),
	})
}

func (s *Server) handleCreateWorkExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req db.WorkExperience
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.JobTitle == "" || req.CompanyName == "" {
		s.errorResponse(w, http.StatusBadRequest, "JobTitle and CompanyName are required")
		return
	}

	req.UserID = userID
	id, err := s.db.CreateWorkExperience(r.Context(), &req)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleUpdateWorkExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid work experience ID")
		return
	}

	var req db.WorkExperience
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = id
	req.UserID = userID

	if err := s.db.UpdateWorkExperience(r.Context(), &req); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "Work experience not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteWorkExperience(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid work experience ID")
		return
	}

	if err := s.db.DeleteWorkExperience(r.Context(), id, userID); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "Work experience not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Project Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	projects, err := s.db.ListProjects(r.Context(), userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"projects": projects,
		"count":    len(projects),
	})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req db.Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ProjectTitle == "" || req.Description == "" {
		s.errorResponse(w, http.StatusBadRequest, "ProjectTitle and Description are required")
		return
	}

	req.UserID = userID
	id, err := s.db.CreateProject(r.Context(), &req)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req db.Project
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ID = id
	req.UserID = userID

	if err := s.db.UpdateProject(r.Context(), &req); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "Project not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	if err := s.db.DeleteProject(r.Context(), id, userID); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "Project not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---------------------------------------------------------------------
// Skill Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skills, err := s.db.ListSkills(r.Context(), userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skills": skills,
		"count":  len(skills),
	})
}

func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req db.Skill
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.SkillName == "" {
		s.errorResponse(w, http.StatusBadRequest, "SkillName is required")
		return
	}

	req.UserID = userID
	id, err := s.db.CreateSkill(r.Context(), &req)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid skill ID")
		return
	}

	if err := s.db.DeleteSkill(r.Context(), id, userID); err != nil {
		if isNotFound(err) {
			s.errorResponse(w, http.StatusNotFound, "Skill not found")
			return
		}
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
