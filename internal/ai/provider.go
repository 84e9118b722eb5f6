package ai

import (
	"context"
	"io"
)

// Provider is a text completion backend.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "ollama")
	Name() string

	// Complete performs a single completion
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// MaxTokens returns the maximum context window size
	MaxTokens() int

	// TruncateToFit shortens text to roughly maxTokens tokens
	TruncateToFit(text string, maxTokens int) (string, error)

	// HealthCheck verifies provider connectivity
	HealthCheck(ctx context.Context) error

	io.Closer
}

// EstimateTokens is the rough count shared by providers that have no
// tokenizer of their own.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// TruncateText cuts text to about maxTokens tokens, preferring to break at
// whitespace.
func TruncateText(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := EstimateTokens(text)
	if tokens <= maxTokens {
		return text
	}

	target := len(text) * maxTokens / tokens
	if target >= len(text) {
		return text
	}
	cut := text[:target]
	for i := len(cut) - 1; i > target/2; i-- {
		if cut[i] == ' ' || cut[i] == '\n' {
			return cut[:i]
		}
	}
	return cut
}
