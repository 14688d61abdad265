package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/careerweave/careerweave/internal/scrape"
)

type ScrapeRequest struct {
	URL string `json:"url"`
}

// handleScrape extracts job description text from a posting URL.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.URL == "" {
		s.errorResponse(w, http.StatusBadRequest, "url is required")
		return
	}

	text, err := s.extractor.Extract(r.Context(), req.URL)
	if err != nil {
		if _, ok := err.(*scrape.Error); ok {
			log.Printf("Scrape rejected for %s: %v", req.URL, err)
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, "Failed to scrape job posting", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"text": text})
}
