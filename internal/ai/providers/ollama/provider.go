package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yildizm/ResumeLens/internal/ai"
)

// Provider implements ai.Provider for a local Ollama server
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

// New creates a new Ollama provider instance
func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "ollama"
}

// Complete performs text completion
func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewProviderError(ai.ErrTypeValidation, "completion request is required", "ollama")
	}

	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	options := &Options{
		Temperature: temperature,
		NumCtx:      p.config.MaxTokens,
	}
	if req.MaxTokens > 0 {
		options.NumPredict = req.MaxTokens
	}

	ollamaReq := &GenerateRequest{
		Model:   model,
		Prompt:  req.Prompt,
		System:  req.SystemPrompt,
		Stream:  false,
		Options: options,
	}
	if req.JSON {
		ollamaReq.Format = "json"
	}

	resp, err := p.generate(ctx, ollamaReq)
	if err != nil {
		return nil, err
	}

	finish := resp.DoneReason
	if finish == "" {
		finish = "stop"
	}

	return &ai.CompletionResponse{
		Content:      resp.Response,
		FinishReason: finish,
		Usage: &ai.TokenUsage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		},
		Model:     resp.Model,
		RequestID: req.RequestID,
		CreatedAt: resp.CreatedAt,
	}, nil
}

// MaxTokens returns the maximum context window size
func (p *Provider) MaxTokens() int {
	return p.config.MaxTokens
}

// TruncateToFit truncates text to fit within token limits
func (p *Provider) TruncateToFit(text string, maxTokens int) (string, error) {
	return ai.TruncateText(text, maxTokens), nil
}

// Close cleans up provider resources
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// HealthCheck verifies the server is up and the default model is installed
func (p *Provider) HealthCheck(ctx context.Context) error {
	models, err := p.ListModels(ctx)
	if err != nil {
		return err
	}
	for _, m := range models {
		if m.Name == p.config.DefaultModel || strings.TrimSuffix(m.Name, ":latest") == p.config.DefaultModel {
			return nil
		}
	}
	return ai.NewProviderError(ai.ErrTypeNotFound,
		fmt.Sprintf("model %s is not installed (run: ollama pull %s)", p.config.DefaultModel, p.config.DefaultModel), "ollama")
}

// ListModels returns the locally installed models
func (p *Provider) ListModels(ctx context.Context) ([]Model, error) {
	endpoint := p.baseURL.JoinPath("/api/tags")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "ollama", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "ollama", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var tags TagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "ollama", err)
	}
	return tags.Models, nil
}

// generate performs a single generation request
func (p *Provider) generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	endpoint := p.baseURL.JoinPath("/api/generate")

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "ollama", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to create request", "ollama", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ai.NewProviderErrorWithCause(ai.ErrTypeTimeout, "request cancelled", "ollama", err)
		}
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "ollama", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "ollama", err)
	}

	return &result, nil
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var errorResp ErrorResponse
	message := ""
	if json.Unmarshal(body, &errorResp) == nil {
		message = errorResp.Error
	}
	return ai.NewHTTPError("ollama", resp.StatusCode, message)
}
