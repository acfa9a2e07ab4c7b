// Package mock provides a canned ai.Provider for development and tests.
package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/0xarg/openscope/internal/ai"
)

// Provider is a mock AI provider for testing and development.
type Provider struct {
	logger *slog.Logger

	// Configurable responses for testing
	CompleteResponse *ai.Completion
	CompleteError    error

	// Call tracking for testing
	CompleteCalls int
	LastPrompt    string
}

// New creates a new mock AI provider.
func New(logger *slog.Logger) *Provider {
	return &Provider{
		logger: logger,
	}
}

// Complete returns a canned JSON response shaped like an issue-basic insight.
// Set CompleteResponse or CompleteError to override.
func (p *Provider) Complete(ctx context.Context, prompt string) (*ai.Completion, error) {
	p.CompleteCalls++
	p.LastPrompt = prompt

	if p.CompleteError != nil {
		return nil, p.CompleteError
	}
	if p.CompleteResponse != nil {
		return p.CompleteResponse, nil
	}

	if p.logger != nil {
		p.logger.Debug("mock AI completion", "prompt_len", len(prompt))
	}

	return &ai.Completion{
		Text: `{
  "difficulty": "medium",
  "skills": ["Go", "SQL"],
  "estimatedTime": "2-4 hours"
}`,
		Model: "mock-model",
		Usage: ai.UsageInfo{
			PromptTokens:     128,
			CompletionTokens: 64,
			TotalTokens:      192,
			Duration:         5 * time.Millisecond,
		},
	}, nil
}
