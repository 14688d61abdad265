package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize_Success(t *testing.T) {
	audio := []byte("mp3-bytes")
	var gotPath, gotKey string
	var gotBody synthesisRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	synth := NewSynthesizer("test-key", &Options{BaseURL: server.URL})
	got, err := synth.Synthesize(context.Background(), "Tell me about yourself.")
	require.NoError(t, err)
	assert.Equal(t, audio, got)
	assert.Equal(t, "/v1/text-to-speech/"+DefaultVoiceID, gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Tell me about yourself.", gotBody.Text)
	assert.InDelta(t, 0.5, gotBody.VoiceSettings.Stability, 0.001)
	assert.InDelta(t, 0.75, gotBody.VoiceSettings.SimilarityBoost, 0.001)
}

func TestSynthesize_CustomVoice(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	synth := NewSynthesizer("test-key", &Options{BaseURL: server.URL, VoiceID: "custom-voice"})
	_, err := synth.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "/v1/text-to-speech/custom-voice", gotPath)
}

func TestSynthesize_MissingAPIKey(t *testing.T) {
	synth := NewSynthesizer("", nil)
	assert.False(t, synth.Enabled())

	_, err := synth.Synthesize(context.Background(), "hello")
	require.Error(t, err)

	var speechErr *Error
	assert.ErrorAs(t, err, &speechErr)
	assert.Contains(t, err.Error(), "API key is not configured")
}

func TestSynthesize_EmptyText(t *testing.T) {
	synth := NewSynthesizer("test-key", nil)
	_, err := synth.Synthesize(context.Background(), "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text is empty")
}

func TestSynthesize_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid key"}`))
	}))
	defer server.Close()

	synth := NewSynthesizer("bad-key", &Options{BaseURL: server.URL})
	_, err := synth.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid key")
}

func TestSynthesize_EmptyAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	synth := NewSynthesizer("test-key", &Options{BaseURL: server.URL})
	_, err := synth.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty audio response")
}
