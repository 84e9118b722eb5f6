package config

import (
	"fmt"
	"time"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Service ServiceConfig `yaml:"service" json:"service"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Stub    StubConfig    `yaml:"stub" json:"stub"`
}

// ServiceConfig locates the analysis service
type ServiceConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // scheme://host[:port][/prefix]
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per-request timeout, 0 disables
	UserAgent string        `yaml:"user_agent" json:"user_agent"` // sent with every request
}

// UIConfig configures the interactive terminal UI
type UIConfig struct {
	Theme    string `yaml:"theme" json:"theme"`         // default|high-contrast|minimal
	StartDir string `yaml:"start_dir" json:"start_dir"` // where the file picker opens
	NoEmoji  bool   `yaml:"no_emoji" json:"no_emoji"`
}

// OutputConfig configures headless command output
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// LoggingConfig configures the structured log
type LoggingConfig struct {
	File   string `yaml:"file" json:"file"`     // empty logs to stderr in headless commands
	Format string `yaml:"format" json:"format"` // text|json
}

// StubConfig configures the local stand-in service
type StubConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Analyzer string `yaml:"analyzer" json:"analyzer"` // heuristic|openai|ollama
	Model    string `yaml:"model" json:"model"`       // empty uses the provider default
	LLMURL   string `yaml:"llm_url" json:"llm_url"`   // provider endpoint override
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceConfig{
			BaseURL:   api.DefaultBaseURL,
			Timeout:   api.DefaultTimeout,
			UserAgent: api.DefaultUserAgent,
		},
		UI: UIConfig{
			Theme:    "default",
			StartDir: ".",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
		},
		Logging: LoggingConfig{
			File:   "~/.cache/resumelens/resumelens.log",
			Format: "text",
		},
		Stub: StubConfig{
			Addr:     ":8000",
			Analyzer: "heuristic",
		},
	}
}

// APIConfig converts the service section for the HTTP client
func (c *Config) APIConfig() api.Config {
	return api.Config{
		BaseURL:   c.Service.BaseURL,
		Timeout:   c.Service.Timeout,
		UserAgent: c.Service.UserAgent,
	}
}

// LogFile returns the log path with ~ expanded
func (c *Config) LogFile() string {
	return expandPath(c.Logging.File)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateServiceConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateLoggingConfig(); err != nil {
		return err
	}
	return c.validateStubConfig()
}

// validateServiceConfig validates the service address and timeout
func (c *Config) validateServiceConfig() error {
	apiConfig := c.APIConfig()
	if err := apiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid service config: %w", err)
	}
	return nil
}

// validateUIConfig validates the theme name
func (c *Config) validateUIConfig() error {
	if c.UI.Theme == "" {
		return nil
	}
	for _, name := range theme.Available() {
		if name == c.UI.Theme {
			return nil
		}
	}
	return fmt.Errorf("invalid theme: %s (must be one of: %v)", c.UI.Theme, theme.Available())
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateLoggingConfig validates the log format
func (c *Config) validateLoggingConfig() error {
	switch c.Logging.Format {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log format: %s (must be one of: text, json)", c.Logging.Format)
}

// validateStubConfig validates the stub analyzer backend
func (c *Config) validateStubConfig() error {
	switch c.Stub.Analyzer {
	case "", "heuristic", "openai", "ollama":
		return nil
	}
	return fmt.Errorf("invalid stub analyzer: %s (must be one of: heuristic, openai, ollama)", c.Stub.Analyzer)
}
