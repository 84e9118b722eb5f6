package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
	if len(loader.envFiles) != 1 {
		t.Errorf("Expected 1 env file, got %d", len(loader.envFiles))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := (&Loader{}).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Service.BaseURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
service:
  base_url: "https://resumes.example.com/v1"
  timeout: 45s
ui:
  theme: "minimal"
  no_emoji: true
output:
  default_format: "json"
  verbose: true
logging:
  format: "json"
`)

	loader := &Loader{}
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Service.BaseURL != "https://resumes.example.com/v1" {
		t.Errorf("Expected base URL from file, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Service.Timeout)
	}
	if cfg.Service.UserAgent != "resumelens" {
		t.Errorf("Expected default user agent to survive merge, got %s", cfg.Service.UserAgent)
	}
	if cfg.UI.Theme != "minimal" || !cfg.UI.NoEmoji {
		t.Errorf("Expected ui section from file, got %+v", cfg.UI)
	}
	if cfg.Output.DefaultFormat != "json" || !cfg.Output.Verbose {
		t.Errorf("Expected output section from file, got %+v", cfg.Output)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json logging, got %s", cfg.Logging.Format)
	}
	if sources := loader.Sources(); len(sources) != 1 || sources[0] != path {
		t.Errorf("Expected sources [%s], got %v", path, sources)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	low := filepath.Join(dir, "system.yaml")
	high := filepath.Join(dir, "project.yaml")
	broken := filepath.Join(dir, "user.yaml")

	files := map[string]string{
		low:    "service:\n  base_url: \"http://low:1\"\n  timeout: 5s\n",
		high:   "service:\n  base_url: \"http://high:2\"\n",
		broken: "service: [\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	loader := &Loader{configPaths: []string{high, broken, low}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Service.BaseURL != "http://high:2" {
		t.Errorf("Expected highest priority base URL, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("Expected timeout from lower priority file, got %v", cfg.Service.Timeout)
	}
	if len(loader.Warnings()) != 1 {
		t.Errorf("Expected 1 warning for the broken file, got %v", loader.Warnings())
	}
	if sources := loader.Sources(); len(sources) != 2 || sources[0] != low {
		t.Errorf("Expected low then high sources, got %v", sources)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, `version: "1.0"
output:
  default_format: "json
  verbose: true
`)

	_, err := (&Loader{}).LoadConfig(path)
	if err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "service:\n  base_url: \"localhost:8000\"\n")

	_, err := (&Loader{}).LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RESUMELENS_SERVICE_BASE_URL", "http://env:8000")
	t.Setenv("RESUMELENS_SERVICE_TIMEOUT", "30s")
	t.Setenv("RESUMELENS_UI_THEME", "high-contrast")
	t.Setenv("RESUMELENS_OUTPUT_VERBOSE", "true")
	t.Setenv("RESUMELENS_LOGGING_FILE", "/tmp/rl.log")
	t.Setenv("RESUMELENS_STUB_ANALYZER", "ollama")
	t.Setenv("RESUMELENS_STUB_MODEL", "mistral")

	cfg := DefaultConfig()
	if err := (&Loader{}).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Service.BaseURL != "http://env:8000" {
		t.Errorf("Expected base URL from env, got %s", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s, got %v", cfg.Service.Timeout)
	}
	if cfg.UI.Theme != "high-contrast" {
		t.Errorf("Expected theme high-contrast, got %s", cfg.UI.Theme)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Logging.File != "/tmp/rl.log" {
		t.Errorf("Expected log file from env, got %s", cfg.Logging.File)
	}
	if cfg.Stub.Analyzer != "ollama" || cfg.Stub.Model != "mistral" {
		t.Errorf("Expected stub settings from env, got %+v", cfg.Stub)
	}
}

func TestAPIURLShorthand(t *testing.T) {
	t.Setenv("RESUMELENS_API_URL", "http://short:8000")

	cfg := DefaultConfig()
	if err := (&Loader{}).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}
	if cfg.Service.BaseURL != "http://short:8000" {
		t.Errorf("Expected shorthand base URL, got %s", cfg.Service.BaseURL)
	}

	t.Setenv("RESUMELENS_SERVICE_BASE_URL", "http://long:8000")
	cfg = DefaultConfig()
	if err := (&Loader{}).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}
	if cfg.Service.BaseURL != "http://long:8000" {
		t.Errorf("Expected full variable to win, got %s", cfg.Service.BaseURL)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid bool", "RESUMELENS_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "RESUMELENS_SERVICE_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			err := (&Loader{}).applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "RESUMELENS_OUTPUT_DEFAULT_FORMAT=markdown\nRESUMELENS_UI_THEME=minimal\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("RESUMELENS_UI_THEME", "high-contrast")
	// registers cleanup for the variable the dotenv file will export
	t.Setenv("RESUMELENS_OUTPUT_DEFAULT_FORMAT", "")
	_ = os.Unsetenv("RESUMELENS_OUTPUT_DEFAULT_FORMAT")

	cfg, err := (&Loader{envFiles: []string{envPath}}).LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Output.DefaultFormat != "markdown" {
		t.Errorf("Expected format from .env, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.UI.Theme != "high-contrast" {
		t.Errorf("Expected environment to override .env, got %s", cfg.UI.Theme)
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	err := parseDuration("30s", &duration)
	if err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}

	err = parseDuration("invalid", &duration)
	if err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{name: "path traversal attempt", path: "../../../etc/passwd", wantErr: true, errMsg: "path traversal not allowed"},
		{name: "non-yaml file", path: "config.txt", wantErr: true, errMsg: "config file must have .yaml or .yml extension"},
		{name: "system file access", path: "/etc/passwd.yaml", wantErr: true, errMsg: "access to system files not allowed"},
		{name: "proc filesystem access", path: "/proc/version.yaml", wantErr: true, errMsg: "access to system files not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
