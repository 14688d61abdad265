// Package server provides the HTTP REST API for Career Weave.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/careerweave/careerweave/internal/config"
	"github.com/careerweave/careerweave/internal/db"
	"github.com/careerweave/careerweave/internal/interview"
	"github.com/careerweave/careerweave/internal/llm"
	"github.com/careerweave/careerweave/internal/scrape"
	"github.com/careerweave/careerweave/internal/server/middleware"
	"github.com/careerweave/careerweave/internal/server/ratelimit"
	"github.com/careerweave/careerweave/internal/speech"
	"github.com/careerweave/careerweave/internal/weave"
)

// WeaveGenerator runs the generation pipeline for one job URL.
type WeaveGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, jobURL string) (uuid.UUID, error)
}

// InterviewEngine drives the mock interview flow.
type InterviewEngine interface {
	StartOrResume(ctx context.Context, weaveID, userID uuid.UUID) (*interview.StartResult, error)
	SubmitAnswer(ctx context.Context, sessionID, userID uuid.UUID, answer string) (*interview.AnswerResult, error)
}

// Extractor retrieves job description text from a posting URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Synthesizer turns text into audio.
type Synthesizer interface {
	Enabled() bool
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	llmClient   llm.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	pipeline    WeaveGenerator
	engine      InterviewEngine
	extractor   Extractor
	synthesizer Synthesizer
}

// New creates a server instance wired to real collaborators.
func New(cfg *config.ServerConfig) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	extractor := scrape.NewScraper(nil)

	s := &Server{
		db:          database,
		llmClient:   llmClient,
		extractor:   extractor,
		pipeline:    weave.NewPipeline(database, extractor, llmClient),
		engine:      interview.NewEngine(database, llmClient),
		synthesizer: speech.NewSynthesizer(cfg.ElevenLabsAPIKey, nil),
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request mux. Authenticated routes are wrapped with the
// JWT middleware individually so public routes stay on the plain mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /scrape", s.handleScrape)
	mux.HandleFunc("POST /speech", s.handleSpeech)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", protected(s.handleUpdatePassword))

	mux.Handle("GET /profile", protected(s.handleGetProfile))
	mux.Handle("PUT /profile", protected(s.handleUpdateProfile))

	mux.Handle("GET /work-experiences", protected(s.handleListWorkExperiences))
	mux.Handle("POST /work-experiences", protected(s.handleCreateWorkExperience))
	mux.Handle("PUT /work-experiences/{id}", protected(s.handleUpdateWorkExperience))
	mux.Handle("DELETE /work-experiences/{id}", protected(s.handleDeleteWorkExperience))

	mux.Handle("GET /projects", protected(s.handleListProjects))
	mux.Handle("POST /projects", protected(s.handleCreateProject))
	mux.Handle("PUT /projects/{id}", protected(s.handleUpdateProject))
	mux.Handle("DELETE /projects/{id}", protected(s.handleDeleteProject))

	mux.Handle("GET /skills", protected(s.handleListSkills))
	mux.Handle("POST /skills", protected(s.handleCreateSkill))
	mux.Handle("DELETE /skills/{id}", protected(s.handleDeleteSkill))

	mux.Handle("POST /weaves", protected(s.handleCreateWeave))
	mux.Handle("GET /weaves", protected(s.handleListWeaves))
	mux.Handle("GET /weaves/{id}", protected(s.handleGetWeave))

	mux.Handle("POST /interview/start", protected(s.handleStartInterview))
	mux.Handle("POST /interview/answer", protected(s.handleSubmitAnswer))

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdatePassword handles password update requests for the
// authenticated user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// internalError logs the underlying cause and responds with a generic
// message. Provider and database error bodies stay out of responses.
func (s *Server) internalError(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	s.errorResponse(w, http.StatusInternalServerError, message)
}

// extractClientID returns the caller's IP for rate limit bucketing.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
