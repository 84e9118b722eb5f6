package ollama

import (
	"net/url"
	"time"

	"github.com/yildizm/ResumeLens/internal/ai"
)

// Config holds Ollama-specific configuration
type Config struct {
	// BaseURL is the Ollama API endpoint
	BaseURL string `json:"base_url"`

	// DefaultModel is the default model to use if none specified
	DefaultModel string `json:"default_model"`

	// Timeout for HTTP requests. Local models can be slow to load.
	Timeout time.Duration `json:"timeout"`

	// MaxTokens is the context window passed as num_ctx
	MaxTokens int `json:"max_tokens"`

	// DefaultTemperature for requests
	DefaultTemperature float64 `json:"default_temperature"`
}

// DefaultConfig returns a default Ollama configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "http://localhost:11434",
		DefaultModel:       "llama3.1",
		Timeout:            2 * time.Minute,
		MaxTokens:          8192,
		DefaultTemperature: 0.2,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ai.NewConfigurationError("ollama", "base_url", "base URL is required")
	}

	if _, err := url.Parse(c.BaseURL); err != nil {
		return ai.NewConfigurationError("ollama", "base_url", "invalid base URL: "+err.Error())
	}

	if c.DefaultModel == "" {
		return ai.NewConfigurationError("ollama", "default_model", "default model is required")
	}

	if c.Timeout <= 0 {
		return ai.NewConfigurationError("ollama", "timeout", "timeout must be positive")
	}

	if c.MaxTokens <= 0 {
		return ai.NewConfigurationError("ollama", "max_tokens", "max tokens must be positive")
	}

	if c.DefaultTemperature < 0 || c.DefaultTemperature > 1 {
		return ai.NewConfigurationError("ollama", "default_temperature", "temperature must be between 0 and 1")
	}

	return nil
}

// FromProviderConfig creates Ollama config from generic provider config
func FromProviderConfig(pc *ai.ProviderConfig) *Config {
	config := DefaultConfig()
	if pc == nil {
		return config
	}

	if pc.BaseURL != "" {
		config.BaseURL = pc.BaseURL
	}

	if pc.DefaultModel != "" {
		config.DefaultModel = pc.DefaultModel
	}

	if pc.MaxTokens > 0 {
		config.MaxTokens = pc.MaxTokens
	}

	if pc.DefaultTemperature > 0 && pc.DefaultTemperature <= 1 {
		config.DefaultTemperature = pc.DefaultTemperature
	}

	if pc.Timeout > 0 {
		config.Timeout = pc.Timeout
	}

	return config
}

// Register adds the ollama factory to r
func Register(r *ai.Registry) error {
	return r.Register("ollama", func(config *ai.ProviderConfig) (ai.Provider, error) {
		p, err := New(FromProviderConfig(config))
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}
