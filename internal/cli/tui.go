package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/logger"
	"github.com/yildizm/ResumeLens/internal/ui"
)

// runTUI opens the interactive terminal UI. The UI owns the terminal, so
// logging always goes to a file.
func runTUI(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()

	path := cfg.LogFile()
	if path == "" {
		path = logger.DefaultFile()
	}
	log, closer, err := logger.Open(logger.Options{
		File:    path,
		Verbose: isVerbose(),
		JSON:    cfg.Logging.Format == "json",
	})
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLogger(closer)

	client, err := newClient(log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	log.Info("starting interactive session", "service", client.BaseURL(), "start_dir", cfg.UI.StartDir)
	if err := ui.Run(ctx, client, ui.Options{
		StartDir: cfg.UI.StartDir,
		Logger:   logger.WithComponent(log, "ui"),
	}); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}
