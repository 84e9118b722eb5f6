package ollama

import "time"

// GenerateRequest represents an Ollama generate API request
type GenerateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Format  string   `json:"format,omitempty"` // "json" constrains the output
	Stream  bool     `json:"stream"`
	Options *Options `json:"options,omitempty"`
}

// GenerateResponse represents an Ollama generate API response
type GenerateResponse struct {
	Model      string    `json:"model"`
	Response   string    `json:"response"`
	Done       bool      `json:"done"`
	DoneReason string    `json:"done_reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Evaluation metrics
	TotalDuration   int64 `json:"total_duration,omitempty"`
	PromptEvalCount int   `json:"prompt_eval_count,omitempty"`
	EvalCount       int   `json:"eval_count,omitempty"`
}

// TagsResponse represents the response from /api/tags
type TagsResponse struct {
	Models []Model `json:"models"`
}

// Model represents an installed Ollama model
type Model struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
}

// Options contains generation options
type Options struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumCtx      int     `json:"num_ctx,omitempty"`   // Context window size
	NumPredict  int     `json:"num_predict,omitempty"` // Maximum tokens to generate
}

// ErrorResponse represents an Ollama API error response
type ErrorResponse struct {
	Error string `json:"error"`
}
