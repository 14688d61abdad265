// Package config provides environment-driven configuration for the Career Weave server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// ServerConfig holds the top-level configuration read at boot.
type ServerConfig struct {
	Port             int
	DatabaseURL      string
	GeminiAPIKey     string
	ElevenLabsAPIKey string // optional; speech synthesis returns an error when unset
}

// NewServerConfig reads server configuration from environment variables.
// DATABASE_URL and GEMINI_API_KEY are required; PORT defaults to 8080.
func NewServerConfig() (*ServerConfig, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required but not set")
	}

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		port = p
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT out of range: %d", port)
	}

	return &ServerConfig{
		Port:             port,
		DatabaseURL:      databaseURL,
		GeminiAPIKey:     geminiKey,
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
	}, nil
}
