package openai

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/yildizm/ResumeLens/internal/ai"
)

const (
	DefaultBaseURL     = "https://api.openai.com"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 16384
	DefaultTemperature = 0.2
	DefaultTimeout     = 60 * time.Second
)

// APIKeyEnv is read when the configuration carries no key.
const APIKeyEnv = "OPENAI_API_KEY"

type Config struct {
	APIKey             string        `json:"api_key"`
	BaseURL            string        `json:"base_url"`
	DefaultModel       string        `json:"default_model"`
	MaxTokens          int           `json:"max_tokens"`
	DefaultTemperature float64       `json:"default_temperature"`
	Timeout            time.Duration `json:"timeout"`
	OrganizationID     string        `json:"organization_id,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		DefaultModel:       DefaultModel,
		MaxTokens:          DefaultMaxTokens,
		DefaultTemperature: DefaultTemperature,
		Timeout:            DefaultTimeout,
	}
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ai.NewConfigurationError("openai", "api_key", "API key is required (set "+APIKeyEnv+")")
	}

	if c.BaseURL == "" {
		return ai.NewConfigurationError("openai", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("openai", "base_url", fmt.Sprintf("invalid base URL: %v", err))
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("openai", "default_model", "default model is required")
	}

	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("openai", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 2 {
		return ai.NewConfigurationError("openai", "default_temperature", "temperature must be between 0 and 2")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("openai", "timeout", "timeout must be positive")
	}

	return nil
}

// FromProviderConfig fills the defaults in for zero fields
func FromProviderConfig(config *ai.ProviderConfig) *Config {
	c := DefaultConfig()
	if config == nil {
		return c
	}

	c.APIKey = config.APIKey
	if c.APIKey == "" {
		c.APIKey = os.Getenv(APIKeyEnv)
	}
	if config.BaseURL != "" {
		c.BaseURL = config.BaseURL
	}
	if config.DefaultModel != "" {
		c.DefaultModel = config.DefaultModel
	}
	if config.MaxTokens > 0 {
		c.MaxTokens = config.MaxTokens
	}
	if config.DefaultTemperature > 0 {
		c.DefaultTemperature = config.DefaultTemperature
	}
	if config.Timeout > 0 {
		c.Timeout = config.Timeout
	}
	return c
}

// Register adds the openai factory to r
func Register(r *ai.Registry) error {
	return r.Register("openai", func(config *ai.ProviderConfig) (ai.Provider, error) {
		p, err := New(FromProviderConfig(config))
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
