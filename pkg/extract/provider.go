// Package extract wraps the external text-completion service: it builds
// prompts embedding the current catalog, sends transcript text, and parses
// the structured output into typed candidate records.
package extract

import "context"

// Provider is the text-completion service abstraction. Implementations
// should apply a bounded wait per request.
type Provider interface {
	// Name returns the provider identifier for logging.
	Name() string

	// Complete sends a completion request and returns the raw response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest is a single prompt for the completion service.
type CompletionRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// CompletionResponse is the raw result of a completion call.
type CompletionResponse struct {
	Content      string
	FinishReason string
	Model        string
	LatencyMs    int
	TokensUsed   TokenUsage
}

// TokenUsage reports token counts for a completion call.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}
