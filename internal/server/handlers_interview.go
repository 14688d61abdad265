package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/careerweave/careerweave/internal/interview"
	"github.com/careerweave/careerweave/internal/server/middleware"
)

type StartInterviewRequest struct {
	WeaveID string `json:"weaveId"`
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

// handleStartInterview starts a mock interview for a weave, or resumes the
// one already in progress.
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	weaveID, err := uuid.Parse(req.WeaveID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid weave ID")
		return
	}

	result, err := s.engine.StartOrResume(r.Context(), weaveID, userID)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.internalError(w, "Failed to start interview", err)
			return
		}
		log.Printf("Interview start rejected for weave %s: %v", weaveID, err)
		s.errorResponse(w, status, err.Error())
		return
	}

	if result.Completed {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"message":        "Interview completed",
			"totalQuestions": interview.TotalQuestions,
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleSubmitAnswer records an answer, returns AI feedback and the next
// question when one remains.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session ID")
		return
	}

	result, err := s.engine.SubmitAnswer(r.Context(), sessionID, userID, req.Answer)
	if err != nil {
		status := HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.internalError(w, "Failed to submit answer", err)
			return
		}
		log.Printf("Answer submission rejected for session %s: %v", sessionID, err)
		s.errorResponse(w, status, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}
