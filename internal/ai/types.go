package ai

import (
	"time"
)

// CompletionRequest represents a request for text completion
type CompletionRequest struct {
	// Prompt is the user message
	Prompt string `json:"prompt"`

	// SystemPrompt provides system-level instructions
	SystemPrompt string `json:"system_prompt,omitempty"`

	// MaxTokens limits the response length
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness
	Temperature float64 `json:"temperature,omitempty"`

	// Model overrides the provider default
	Model string `json:"model,omitempty"`

	// JSON asks the provider to constrain output to a JSON object when
	// the backend supports it.
	JSON bool `json:"json,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// CompletionResponse represents the response from a completion request
type CompletionResponse struct {
	Content      string      `json:"content"`
	FinishReason string      `json:"finish_reason"`
	Usage        *TokenUsage `json:"usage"`
	Model        string      `json:"model"`
	RequestID    string      `json:"request_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// TokenUsage tracks token consumption
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ProviderConfig is the provider-agnostic configuration a Factory
// receives. Zero values fall back to the provider defaults.
type ProviderConfig struct {
	// Type selects the provider (openai, ollama)
	Type string `json:"type" yaml:"type"`

	APIKey             string        `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL            string        `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	DefaultModel       string        `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	MaxTokens          int           `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	DefaultTemperature float64       `json:"default_temperature,omitempty" yaml:"default_temperature,omitempty"`
	Timeout            time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}
