package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xarg/openscope/internal/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{}, testLogger())
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	p, err := New(Config{APIKey: "sk-test"}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, p.config.BaseURL)
	assert.Equal(t, DefaultModel, p.config.Model)
}

func TestComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "analyze this issue", req.Messages[0].Content)
		assert.Equal(t, MaxTokens, req.MaxTokens)

		_ = json.NewEncoder(w).Encode(apiResponse{
			Choices: []apiChoice{
				{Message: apiMessage{Role: "assistant", Content: `{"difficulty":"easy"}`}},
			},
			Usage: apiUsage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120},
		})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}, testLogger())
	require.NoError(t, err)

	completion, err := p.Complete(context.Background(), "analyze this issue")
	require.NoError(t, err)
	assert.Equal(t, `{"difficulty":"easy"}`, completion.Text)
	assert.Equal(t, DefaultModel, completion.Model)
	assert.Equal(t, 120, completion.Usage.TotalTokens)
}

func TestComplete_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, ai.EAIUnauthorized},
		{"forbidden", http.StatusForbidden, ai.EAIUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ai.EAIRateLimit},
		{"bad gateway", http.StatusBadGateway, ai.EAIUnavailable},
		{"service unavailable", http.StatusServiceUnavailable, ai.EAIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error": {"type": "x", "message": "nope"}}`))
			}))
			defer server.Close()

			p, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}, testLogger())
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), "prompt")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v in chain, got %v", tt.wantErr, err)
		})
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(apiResponse{})
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: server.URL}, testLogger())
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}
