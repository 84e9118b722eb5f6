package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/ai"
	"github.com/yildizm/ResumeLens/internal/ai/providers/ollama"
	"github.com/yildizm/ResumeLens/internal/ai/providers/openai"
	"github.com/yildizm/ResumeLens/internal/config"
	"github.com/yildizm/ResumeLens/internal/logger"
	"github.com/yildizm/ResumeLens/internal/stubservice"
)

func newStubCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Run a local stand-in for the analysis service",
		Long: `Serve the analysis service API on a local address for development.

The stub keeps records in memory. By default it derives the extracted data
and feedback from the PDF text with simple heuristics; --analyzer openai or
--analyzer ollama sends the text to a language model instead.`,
		Example: `  # Serve on the default client address
  resumelens stub

  # Serve elsewhere and point the client at it
  resumelens stub --addr :9000
  resumelens --api-url http://localhost:9000

  # Use a local model
  resumelens stub --analyzer ollama --model llama3.1`,
		Args: cobra.NoArgs,
		RunE: runStub,
	}

	cmd.Flags().String("addr", ":8000", "listen address")
	cmd.Flags().String("analyzer", "heuristic", "analysis backend (heuristic, openai, ollama)")
	cmd.Flags().String("model", "", "model name (default: provider default)")
	cmd.Flags().String("llm-url", "", "model provider endpoint")

	return cmd
}

func runStub(cmd *cobra.Command, args []string) error {
	stubCfg := GetGlobalConfig().Stub
	applyStubFlags(cmd, &stubCfg)

	log, closer, err := openLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLogger(closer)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	analyzer, cleanup, err := buildAnalyzer(ctx, stubCfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := stubservice.New(
		stubservice.WithAnalyzer(analyzer),
		stubservice.WithLogger(logger.WithComponent(log, "stub")),
	)
	log.Info("stub service listening", slog.String("addr", stubCfg.Addr), slog.String("analyzer", stubCfg.Analyzer))
	if err := srv.ListenAndServe(ctx, stubCfg.Addr); err != nil {
		return fmt.Errorf("stub service failed: %w", err)
	}
	return nil
}

func applyStubFlags(cmd *cobra.Command, cfg *config.StubConfig) {
	flags := map[string]*string{
		"addr":     &cfg.Addr,
		"analyzer": &cfg.Analyzer,
		"model":    &cfg.Model,
		"llm-url":  &cfg.LLMURL,
	}
	for name, dst := range flags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
}

// newProviderRegistry knows every model backend the stub can use
func newProviderRegistry() (*ai.Registry, error) {
	r := ai.NewRegistry()
	if err := openai.Register(r); err != nil {
		return nil, err
	}
	if err := ollama.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// buildAnalyzer returns the configured backend and a cleanup func for it.
func buildAnalyzer(ctx context.Context, cfg config.StubConfig, log *slog.Logger) (stubservice.Analyzer, func(), error) {
	if cfg.Analyzer == "" || cfg.Analyzer == "heuristic" {
		return stubservice.HeuristicAnalyzer{}, func() {}, nil
	}

	registry, err := newProviderRegistry()
	if err != nil {
		return nil, nil, err
	}
	if !registry.IsRegistered(cfg.Analyzer) {
		return nil, nil, fmt.Errorf("unknown analyzer %q (available: heuristic, %s)",
			cfg.Analyzer, strings.Join(registry.List(), ", "))
	}

	provider, err := registry.Create(&ai.ProviderConfig{
		Type:         cfg.Analyzer,
		BaseURL:      cfg.LLMURL,
		DefaultModel: cfg.Model,
	})
	if ai.IsConfigurationError(err) {
		return nil, nil, fmt.Errorf("%s analyzer is not configured: %w", cfg.Analyzer, err)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s analyzer: %w", cfg.Analyzer, err)
	}

	// an unreachable model is reported per upload, so startup continues
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := provider.HealthCheck(checkCtx); err != nil {
		log.Warn("model provider health check failed", slog.String("provider", provider.Name()), logger.Error(err))
	}

	cleanup := func() {
		if err := provider.Close(); err != nil {
			log.Debug("failed to close provider", logger.Error(err))
		}
	}
	return stubservice.NewLLMAnalyzer(provider, cfg.Model, log), cleanup, nil
}
