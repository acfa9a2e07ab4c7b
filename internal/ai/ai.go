package ai

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider defines the interface for the AI inference collaborator.
//
// A provider performs a single blocking round trip per call: one user-role
// prompt in, raw text out. Retry policy, streaming and token negotiation are
// deliberately out of scope; callers decide what to do with a failure.
type Provider interface {
	// Complete sends the prompt to the model and returns the raw text of the
	// first choice.
	Complete(ctx context.Context, prompt string) (*Completion, error)
}

// Completion is the raw result of one inference call.
type Completion struct {
	Text  string    // Raw text content of the first choice
	Model string    // Model identifier that produced the response
	Usage UsageInfo // Token usage reported by the endpoint
}

// UsageInfo tracks token consumption for the usage ledger.
type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Duration         time.Duration
}

// ProviderConfig contains common configuration for AI providers.
type ProviderConfig struct {
	RequestTimeout time.Duration // Timeout for individual requests
}

// Error codes for AI provider operations
var (
	// EAIRateLimit indicates the API rate limit has been exceeded
	EAIRateLimit = errors.New("ai provider rate limit exceeded")

	// EAITimeout indicates the request timed out
	EAITimeout = errors.New("ai request timed out")

	// EAIUnavailable indicates the AI service is temporarily unavailable
	EAIUnavailable = errors.New("ai service temporarily unavailable")

	// EAIUnauthorized indicates invalid API credentials
	EAIUnauthorized = errors.New("ai provider authentication failed")

	// EAIMalformedResponse indicates the model returned text that does not
	// contain a parseable JSON object
	EAIMalformedResponse = errors.New("malformed ai response")
)

// IsRetryable returns true if the error is a transient error.
// The insight pipeline itself never retries; this exists for callers that do.
func IsRetryable(err error) bool {
	return errors.Is(err, EAIRateLimit) ||
		errors.Is(err, EAITimeout) ||
		errors.Is(err, EAIUnavailable)
}

// WrapError wraps an error with context about the AI operation.
func WrapError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("ai %s: %w", operation, err)
}
