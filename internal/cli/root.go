package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/config"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/formatter"
	"github.com/yildizm/ResumeLens/internal/logger"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string
	apiURL    string
	logFile   string

	globalConfig *config.Config
)

// skipConfig marks commands that load (or write) configuration themselves.
const skipConfig = "skip-config"

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	globalConfig = nil

	rootCmd := &cobra.Command{
		Use:   "resumelens",
		Short: "Terminal client for the resume analysis service",
		Long: `ResumeLens submits PDF resumes to an analysis service and shows the
extracted data and AI feedback it returns.

Run without a subcommand to open the interactive terminal UI, or use the
headless commands to analyze files and browse the history from scripts.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE:              runTUI,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "output format (text, json, markdown)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "analysis service base URL")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newStubCommand())
	rootCmd.AddCommand(newLogsCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// setup applies presentation flags and loads the configuration.
func setup(cmd *cobra.Command, args []string) error {
	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
		noEmoji = true
	}
	emoji.SetEmojiDisabled(noEmoji)
	theme.SetColorDisabled(noColor)

	if cmd.Annotations[skipConfig] == "true" {
		return nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlagOverrides(cmd, cfg)
	globalConfig = cfg

	if cfg.UI.NoEmoji {
		emoji.SetEmojiDisabled(true)
	}
	if cfg.Output.ColorMode == "never" {
		theme.SetColorDisabled(true)
	}
	theme.SetByName(cfg.UI.Theme)
	return nil
}

// applyFlagOverrides gives explicitly set flags the last word.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if apiURL != "" {
		cfg.Service.BaseURL = apiURL
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	if outputFmt != "" {
		cfg.Output.DefaultFormat = outputFmt
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if cmd.Flag("no-emoji").Changed {
		cfg.UI.NoEmoji = noEmoji
	}
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        "Display version number, build commit, date, and runtime information",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ResumeLens %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// Global helpers

func isVerbose() bool {
	return verbose || (globalConfig != nil && globalConfig.Output.Verbose)
}

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		globalConfig = config.DefaultConfig()
	}
	return globalConfig
}

func getOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

func useColor() bool {
	if theme.ColorDisabled() {
		return false
	}
	switch GetGlobalConfig().Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	}
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func getFormatter() (formatter.Formatter, error) {
	return formatter.New(getOutputFormat(), useColor())
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// openLogger sets up logging for headless commands: the configured file
// when --log-file was given, stderr otherwise.
func openLogger(w io.Writer) (*slog.Logger, io.Closer, error) {
	cfg := GetGlobalConfig()
	opts := logger.Options{
		Writer:  w,
		Verbose: isVerbose(),
		JSON:    cfg.Logging.Format == "json",
	}
	if logFile != "" {
		opts.File = cfg.LogFile()
	}
	return logger.Open(opts)
}

func newClient(l *slog.Logger) (*api.Client, error) {
	apiConfig := GetGlobalConfig().APIConfig()
	client, err := api.New(&apiConfig, api.WithLogger(logger.WithComponent(l, "api")))
	if err != nil {
		return nil, fmt.Errorf("invalid service configuration: %w", err)
	}
	return client, nil
}

func closeLogger(c io.Closer) {
	if err := c.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
}
