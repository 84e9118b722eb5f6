package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/yildizm/ResumeLens/internal/ai"
)

// Provider talks to the OpenAI chat completions API, or any server that
// implements it.
type Provider struct {
	config  *Config
	client  *http.Client
	baseURL *url.URL
}

func New(config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	return &Provider{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.CompletionResponse, error) {
	if req == nil {
		return nil, ai.NewProviderError(ai.ErrTypeValidation, "completion request is required", "openai")
	}

	response, err := p.sendChatRequest(ctx, p.buildChatRequest(req))
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, ai.NewProviderError(ai.ErrTypeProvider, "response has no choices", "openai")
	}

	return response.ToAIResponse(req.RequestID), nil
}

func (p *Provider) MaxTokens() int {
	return p.config.MaxTokens
}

func (p *Provider) TruncateToFit(text string, maxTokens int) (string, error) {
	return ai.TruncateText(text, maxTokens), nil
}

func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *Provider) HealthCheck(ctx context.Context) error {
	endpoint := p.baseURL.JoinPath("/v1/models")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create health check request", "openai", err)
	}
	p.setHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "health check request failed", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return p.handleErrorResponse(resp)
	}
	return nil
}

func (p *Provider) buildChatRequest(req *ai.CompletionRequest) *ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.config.DefaultModel
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = p.config.DefaultTemperature
	}

	chatReq := &ChatCompletionRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
		User:        req.RequestID,
	}
	if req.JSON {
		chatReq.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	chatReq.ToMessages(req.SystemPrompt, req.Prompt)

	return chatReq
}

func (p *Provider) sendChatRequest(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	endpoint := p.baseURL.JoinPath("/v1/chat/completions")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to marshal request", "openai", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "failed to create request", "openai", err)
	}
	p.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ai.NewProviderErrorWithCause(ai.ErrTypeTimeout, "request cancelled", "openai", err)
		}
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeNetwork, "request failed", "openai", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, p.handleErrorResponse(resp)
	}

	var chatResp ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, ai.NewProviderErrorWithCause(ai.ErrTypeInternal, "failed to decode response", "openai", err)
	}

	return &chatResp, nil
}

func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	if p.config.OrganizationID != "" {
		req.Header.Set("OpenAI-Organization", p.config.OrganizationID)
	}
}

func (p *Provider) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var errorResp ErrorResponse
	message := ""
	if err := json.Unmarshal(body, &errorResp); err == nil {
		message = errorResp.Error.Message
	}
	return ai.NewHTTPError("openai", resp.StatusCode, message)
}
