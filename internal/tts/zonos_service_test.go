package tts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zonos-tts-mcp/internal/emotion"
)

func TestBuildRequest_Speech(t *testing.T) {
	s := NewZonosService(zap.NewNop(), "http://localhost:8000", ContractSpeech, 0)

	req := s.BuildRequest("Hello", DefaultLanguage, emotion.Lookup(emotion.Neutral))
	assert.Equal(t, "/v1/audio/speech", req.Path)

	body, ok := req.Body.(*SpeechRequest)
	require.True(t, ok)
	assert.Equal(t, ModelID, body.Model)
	assert.Equal(t, "Hello", body.Input)
	assert.Equal(t, "en-us", body.Language)
	assert.Equal(t, emotion.Lookup(emotion.Neutral), body.Emotion)
	assert.Equal(t, 1.0, body.Speed)
	assert.Equal(t, "wav", body.ResponseFormat)
	assert.Equal(t, 0.85, body.TopP)
	assert.Equal(t, 0.25, body.MinP)
}

func TestBuildRequest_Generate(t *testing.T) {
	req := ContractGenerate.Build("", "de", emotion.Lookup(emotion.Angry))
	assert.Equal(t, "/generate", req.Path)

	body, ok := req.Body.(*GenerateRequest)
	require.True(t, ok)
	assert.Equal(t, ModelID, body.ModelChoice)
	assert.Equal(t, "", body.Text)
	assert.Equal(t, "de", body.Language)
	assert.Equal(t, emotion.Lookup(emotion.Angry), body.Emotion)
	assert.Equal(t, 0.78, body.VQScore)
	assert.Equal(t, 24000.0, body.FMax)
	assert.Equal(t, 45.0, body.PitchStd)
	assert.Equal(t, 15.0, body.SpeakingRate)
	assert.Equal(t, 4.0, body.DNSMOSOverall)
	assert.Equal(t, 2.0, body.CFGScale)
	assert.Equal(t, 0.15, body.MinP)
	assert.Equal(t, 420, body.Seed)
	assert.Equal(t, []string{"emotion"}, body.UnconditionalKeys)
}

func TestParseContract(t *testing.T) {
	c, err := ParseContract("generate")
	require.NoError(t, err)
	assert.Equal(t, ContractGenerate, c)

	_, err = ParseContract("openai")
	assert.Error(t, err)
}

func TestSynthesize_Success(t *testing.T) {
	wav := []byte("RIFF....WAVEfmt ")
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &got))

		w.Header().Set("Content-Type", "audio/wav")
		w.Write(wav)
	}))
	defer srv.Close()

	s := NewZonosService(zap.NewNop(), srv.URL+"/", ContractSpeech, 0)
	audio, err := s.Synthesize(context.Background(), s.BuildRequest("Hello", "en-us", emotion.Lookup(emotion.Happy)))

	require.NoError(t, err)
	assert.Equal(t, wav, audio)
	assert.Equal(t, "Hello", got["input"])
	assert.Equal(t, "wav", got["response_format"])
	assert.Equal(t, 1.0, got["emotion"].(map[string]any)["happiness"])
}

func TestSynthesize_HTTPErrorWithDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"model not loaded"}`))
	}))
	defer srv.Close()

	s := NewZonosService(zap.NewNop(), srv.URL, ContractGenerate, 0)
	_, err := s.Synthesize(context.Background(), s.BuildRequest("Hello", "en-us", emotion.Lookup(emotion.Sad)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesis)

	var synthErr *SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, http.StatusInternalServerError, synthErr.StatusCode)
	assert.Equal(t, "model not loaded", synthErr.Detail)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestSynthesize_HTTPErrorPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewZonosService(zap.NewNop(), srv.URL, ContractSpeech, 0)
	_, err := s.Synthesize(context.Background(), s.BuildRequest("x", "en-us", emotion.Lookup(emotion.Neutral)))

	var synthErr *SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, "bad gateway", synthErr.Detail)
}

func TestSynthesize_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := NewZonosService(zap.NewNop(), url, ContractSpeech, 0)
	_, err := s.Synthesize(context.Background(), s.BuildRequest("x", "en-us", emotion.Lookup(emotion.Neutral)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSynthesis)

	var synthErr *SynthesisError
	require.True(t, errors.As(err, &synthErr))
	assert.Equal(t, 0, synthErr.StatusCode)
	assert.NotNil(t, synthErr.Err)
}

func TestModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/models", r.URL.Path)
		w.Write([]byte(`{"models":["Zyphra/Zonos-v0.1-transformer"]}`))
	}))
	defer srv.Close()

	s := NewZonosService(zap.NewNop(), srv.URL, ContractSpeech, 0)
	body, err := s.Models(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(body), ModelID)
}

func TestNewTTSService(t *testing.T) {
	s, err := NewTTSService(&Config{BaseURL: "http://localhost:8000", Contract: "generate"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ContractGenerate, s.Contract())

	_, err = NewTTSService(&Config{BaseURL: "http://localhost:8000", Contract: "v2"}, zap.NewNop())
	assert.Error(t, err)
}
