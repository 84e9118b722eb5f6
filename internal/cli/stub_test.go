package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yildizm/ResumeLens/internal/config"
	"github.com/yildizm/ResumeLens/internal/logger"
	"github.com/yildizm/ResumeLens/internal/stubservice"
)

func TestBuildAnalyzer(t *testing.T) {
	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.1:latest"}]}`))
	}))
	t.Cleanup(ollamaServer.Close)
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		cfg     config.StubConfig
		wantLLM bool
		wantErr string
	}{
		{"default", config.StubConfig{}, false, ""},
		{"heuristic", config.StubConfig{Analyzer: "heuristic"}, false, ""},
		{"ollama", config.StubConfig{Analyzer: "ollama", LLMURL: ollamaServer.URL}, true, ""},
		{"ollama missing model still starts", config.StubConfig{Analyzer: "ollama", LLMURL: ollamaServer.URL, Model: "mistral"}, true, ""},
		{"openai without key", config.StubConfig{Analyzer: "openai"}, false, "openai analyzer is not configured"},
		{"unknown backend", config.StubConfig{Analyzer: "gemini"}, false, `unknown analyzer "gemini" (available: heuristic, ollama, openai)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer, cleanup, err := buildAnalyzer(context.Background(), tt.cfg, logger.Discard())
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildAnalyzer() error: %v", err)
			}
			defer cleanup()

			_, isLLM := analyzer.(*stubservice.LLMAnalyzer)
			if isLLM != tt.wantLLM {
				t.Errorf("Expected LLM analyzer %v, got %T", tt.wantLLM, analyzer)
			}
		})
	}
}

func TestApplyStubFlags(t *testing.T) {
	cmd := newStubCommand()
	if err := cmd.ParseFlags([]string{"--analyzer", "ollama", "--model", "mistral"}); err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}

	cfg := config.StubConfig{Addr: ":9000", Analyzer: "heuristic", LLMURL: "http://gpu:11434"}
	applyStubFlags(cmd, &cfg)

	if cfg.Analyzer != "ollama" || cfg.Model != "mistral" {
		t.Errorf("Expected flags to win, got %+v", cfg)
	}
	if cfg.Addr != ":9000" || cfg.LLMURL != "http://gpu:11434" {
		t.Errorf("Expected unset flags to keep config values, got %+v", cfg)
	}
}

