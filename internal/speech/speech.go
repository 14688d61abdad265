// Package speech converts interview questions to spoken audio through the
// ElevenLabs text-to-speech API.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the ElevenLabs API endpoint.
const DefaultBaseURL = "https://api.elevenlabs.io"

// DefaultVoiceID is the voice used when none is configured.
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// DefaultTimeout bounds a single synthesis request.
const DefaultTimeout = 30 * time.Second

// Error represents a failure to synthesize speech.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("speech synthesis failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("speech synthesis failed: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the synthesizer.
type Options struct {
	BaseURL string
	VoiceID string
	Timeout time.Duration
	// Client overrides the HTTP client, used by tests.
	Client *http.Client
}

// Synthesizer turns text into MP3 audio.
type Synthesizer struct {
	apiKey  string
	baseURL string
	voiceID string
	client  *http.Client
}

// NewSynthesizer creates a Synthesizer. Nil options select defaults.
func NewSynthesizer(apiKey string, opts *Options) *Synthesizer {
	if opts == nil {
		opts = &Options{}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Synthesizer{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		voiceID: voiceID,
		client:  client,
	}
}

// Enabled reports whether an API key is configured.
func (s *Synthesizer) Enabled() bool {
	return s.apiKey != ""
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text into MP3 audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, &Error{Message: "API key is not configured"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &Error{Message: "text is empty"}
	}

	payload := synthesisRequest{
		Text:    text,
		ModelID: "eleven_monolingual_v1",
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Message: "failed to encode request", Cause: err}
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", s.baseURL, s.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{Message: fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: "failed to read audio response", Cause: err}
	}
	if len(audio) == 0 {
		return nil, &Error{Message: "empty audio response"}
	}

	return audio, nil
}
