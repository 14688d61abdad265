package server

import (
	"encoding/json"
	"log"
	"net/http"
)

type SpeechRequest struct {
	Question string `json:"question"`
}

// handleSpeech converts interview question text to spoken audio.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		s.errorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	if !s.synthesizer.Enabled() {
		s.errorResponse(w, http.StatusInternalServerError, "Speech synthesis is not configured")
		return
	}

	audio, err := s.synthesizer.Synthesize(r.Context(), req.Question)
	if err != nil {
		log.Printf("Speech synthesis failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to synthesize speech")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		log.Printf("Error writing audio response: %v", err)
	}
}
