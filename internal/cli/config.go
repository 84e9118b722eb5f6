package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/config"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"gopkg.in/yaml.v3"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ResumeLens configuration",
		Long: `Manage ResumeLens configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// configAnnotations keep the root from loading a config these commands
// inspect (or create) themselves.
func configAnnotations() map[string]string {
	return map[string]string{skipConfig: "true"}
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		outputPath string
		minimal    bool
		force      bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new ResumeLens configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  resumelens config init

  # Create minimal config
  resumelens config init --minimal

  # Create config at specific path
  resumelens config init --path ~/.config/resumelens/config.yaml

  # Overwrite existing config
  resumelens config init --force`,
		Annotations: configAnnotations(),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = ".resumelens.yaml"
			}

			if !force && fileExists(outputPath) {
				return fmt.Errorf("config file already exists at %s (use --force to overwrite)", outputPath)
			}

			dir := filepath.Dir(outputPath)
			if dir != "." && dir != "/" {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", dir, err)
				}
			}

			content := config.SampleConfig()
			if minimal {
				content = config.MinimalSampleConfig()
			}

			if err := os.WriteFile(outputPath, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", emoji.GetEmoji("success"), outputPath)
			if minimal {
				fmt.Fprintf(out, "%s Created minimal configuration with essential settings\n", emoji.GetEmoji("document"))
			} else {
				fmt.Fprintf(out, "%s Created full configuration with all options and documentation\n", emoji.GetEmoji("document"))
			}
			return nil
		},
	}

	// --output is the global report format flag, so the target is --path here.
	initCmd.Flags().StringVarP(&outputPath, "path", "p", "", "output path for config file (default: .resumelens.yaml)")
	initCmd.Flags().BoolVarP(&minimal, "minimal", "m", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current effective configuration after loading from all sources.

Shows the merged configuration from defaults, config files, .env files and
RESUMELENS_ environment variable overrides.`,
		Example: `  # Show config in YAML format
  resumelens config show

  # Show config in JSON format
  resumelens config show --format json

  # Show config from specific file
  resumelens config show --config /path/to/config.yaml`,
		Annotations: configAnnotations(),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			applyFlagOverrides(cmd, cfg)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config to JSON: %w", err)
				}
				fmt.Fprintln(out, string(data))
			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config to YAML: %w", err)
				}
				fmt.Fprint(out, string(data))
			default:
				return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
			}
			return nil
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate ResumeLens configuration for syntax and semantic errors.

Checks the merged configuration for:
- Valid YAML syntax
- A usable service address and timeout
- Valid values for themes, formats and color modes`,
		Example: `  # Validate current config
  resumelens config validate

  # Validate specific config file
  resumelens config validate --config /path/to/config.yaml`,
		Annotations: configAnnotations(),
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			loader := config.NewLoader()
			cfg, err := loader.LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", emoji.GetEmoji("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", emoji.GetEmoji("success"))
			for _, w := range loader.Warnings() {
				fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("warning"), w)
			}

			fmt.Fprintf(out, "%s Configuration summary:\n", emoji.GetEmoji("info"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Service: %s\n", cfg.Service.BaseURL)
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Service.Timeout)
			fmt.Fprintf(out, "   Theme: %s\n", cfg.UI.Theme)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			fmt.Fprintf(out, "   Stub Analyzer: %s\n", cfg.Stub.Analyzer)
			fmt.Fprintf(out, "   Sources: %d file(s)\n", len(loader.Sources()))
			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths ResumeLens searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  resumelens config path`,
		Annotations: configAnnotations(),
		Args:        cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", emoji.GetEmoji("folder"))

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := fmt.Sprintf(" %s (not found)", emoji.GetEmoji("error"))
				if fileExists(path) {
					exists = fmt.Sprintf(" %s (exists)", emoji.GetEmoji("success"))
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if cfgFile != "" {
				fmt.Fprintf(out, "%s --config overrides the search: %s\n", emoji.GetEmoji("info"), cfgFile)
			} else if current, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Current config file: %s\n", emoji.GetEmoji("document"), current)
			} else {
				fmt.Fprintf(out, "%s No config file found, using defaults\n", emoji.GetEmoji("document"))
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Variables from .env and the RESUMELENS_ environment override file settings\n", emoji.GetEmoji("insight"))
		},
	}

	return pathCmd
}

// Helper function to check if file exists
func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
