package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.resumelens.yaml",               // Project-specific config (highest priority)
	"~/.config/resumelens/config.yaml", // User config
	"/etc/resumelens/config.yaml",      // System config (lowest priority)
}

// EnvFiles are dotenv files read before environment overrides are applied.
// Variables already set in the environment win.
var EnvFiles = []string{".env"}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFiles    []string

	sources  []string
	warnings []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFiles:    EnvFiles,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables, then .env entries
// 3. ./.resumelens.yaml
// 4. ~/.config/resumelens/config.yaml
// 5. /etc/resumelens/config.yaml
// 6. Built-in defaults
//
// A custom path replaces the search paths entirely.
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()
	l.sources = l.sources[:0]
	l.warnings = l.warnings[:0]

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
		l.sources = append(l.sources, customPath)
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				// a broken optional file should not block startup
				l.warnings = append(l.warnings, fmt.Sprintf("failed to load config from %s: %v", path, err))
				continue
			}
			l.sources = append(l.sources, path)
		}
	}

	if err := l.loadEnvFiles(); err != nil {
		return nil, err
	}
	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Sources lists the files merged by the last LoadConfig, lowest priority first.
func (l *Loader) Sources() []string {
	return append([]string(nil), l.sources...)
}

// Warnings lists config files that were skipped by the last LoadConfig
func (l *Loader) Warnings() []string {
	return append([]string(nil), l.warnings...)
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	// Create a temporary config to unmarshal into
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Merge the file config into the existing config
	mergeConfigs(config, &fileConfig)

	return nil
}

// loadEnvFiles exports dotenv entries without overriding the environment
func (l *Loader) loadEnvFiles() error {
	for _, path := range l.envFiles {
		expandedPath := expandPath(path)
		if !fileExists(expandedPath) {
			continue
		}
		if err := godotenv.Load(expandedPath); err != nil {
			return fmt.Errorf("failed to load %s: %w", expandedPath, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Service Config
		"RESUMELENS_SERVICE_BASE_URL":   func(v string) error { config.Service.BaseURL = v; return nil },
		"RESUMELENS_SERVICE_TIMEOUT":    func(v string) error { return parseDuration(v, &config.Service.Timeout) },
		"RESUMELENS_SERVICE_USER_AGENT": func(v string) error { config.Service.UserAgent = v; return nil },

		// UI Config
		"RESUMELENS_UI_THEME":     func(v string) error { config.UI.Theme = v; return nil },
		"RESUMELENS_UI_START_DIR": func(v string) error { config.UI.StartDir = v; return nil },
		"RESUMELENS_UI_NO_EMOJI":  func(v string) error { return parseBool(v, &config.UI.NoEmoji) },

		// Output Config
		"RESUMELENS_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"RESUMELENS_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"RESUMELENS_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// Logging Config
		"RESUMELENS_LOGGING_FILE":   func(v string) error { config.Logging.File = v; return nil },
		"RESUMELENS_LOGGING_FORMAT": func(v string) error { config.Logging.Format = v; return nil },

		// Stub Config
		"RESUMELENS_STUB_ADDR":     func(v string) error { config.Stub.Addr = v; return nil },
		"RESUMELENS_STUB_ANALYZER": func(v string) error { config.Stub.Analyzer = v; return nil },
		"RESUMELENS_STUB_MODEL":    func(v string) error { config.Stub.Model = v; return nil },
		"RESUMELENS_STUB_LLM_URL":  func(v string) error { config.Stub.LLMURL = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// shorthand for the service address
	if v := os.Getenv("RESUMELENS_API_URL"); v != "" && os.Getenv("RESUMELENS_SERVICE_BASE_URL") == "" {
		config.Service.BaseURL = v
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	// Clean the path to resolve any ".." components
	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Ensure it's a YAML file
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	// Convert to absolute path for additional validation
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	// Basic sanity check - ensure it's not in sensitive system directories
	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeServiceConfig(&dst.Service, &src.Service)
	mergeUIConfig(&dst.UI, &src.UI)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeLoggingConfig(&dst.Logging, &src.Logging)
	mergeStubConfig(&dst.Stub, &src.Stub)
}

func mergeServiceConfig(dst, src *ServiceConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

func mergeUIConfig(dst, src *UIConfig) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.StartDir != "" {
		dst.StartDir = src.StartDir
	}
	mergeIfSet(&dst.NoEmoji, src.NoEmoji)
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	mergeIfSet(&dst.Verbose, src.Verbose)
}

func mergeLoggingConfig(dst, src *LoggingConfig) {
	if src.File != "" {
		dst.File = src.File
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
}

func mergeStubConfig(dst, src *StubConfig) {
	if src.Addr != "" {
		dst.Addr = src.Addr
	}
	if src.Analyzer != "" {
		dst.Analyzer = src.Analyzer
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.LLMURL != "" {
		dst.LLMURL = src.LLMURL
	}
}

// mergeIfSet merges a boolean that defaults to false. A file cannot turn
// a flag back off that a lower-priority file turned on; use the
// environment for that.
func mergeIfSet(dst *bool, src bool) {
	if src {
		*dst = src
	}
}

// Type conversion helpers

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
