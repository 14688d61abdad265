package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/careerweave/careerweave/internal/server/middleware"
)

type CreateWeaveRequest struct {
	JobURL string `json:"jobUrl"`
}

// handleCreateWeave runs the full generation pipeline for one job posting
// and persists the result.
func (s *Server) handleCreateWeave(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateWeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.JobURL == "" {
		s.errorResponse(w, http.StatusBadRequest, "jobUrl is required")
		return
	}

	weaveID, err := s.pipeline.Generate(r.Context(), userID, req.JobURL)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.internalError(w, "Failed to generate weave", err)
			return
		}
		log.Printf("Weave generation rejected for user %s: %v", userID, err)
		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{"weaveId": weaveID.String()})
}

func (s *Server) handleListWeaves(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	weaves, err := s.db.ListWeaves(r.Context(), userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"weaves": weaves,
		"count":  len(weaves),
	})
}

func (s *Server) handleGetWeave(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid weave ID")
		return
	}

	weave, err := s.db.GetWeave(r.Context(), id, userID)
	if err != nil {
		s.internalError(w, "Database error", err)
		return
	}
	if weave == nil {
		s.errorResponse(w, http.StatusNotFound, "Weave not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, weave)
}
