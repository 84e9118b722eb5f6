package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/logger"
)

func newLogsCommand() *cobra.Command {
	var (
		level string
		tail  int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent entries from the ResumeLens log",
		Long: `Read the structured log written by the terminal UI (or by headless commands
run with --log-file) and print the entries at or above a level.`,
		Example: `  # Warnings and errors from the last session
  resumelens logs

  # Everything, last 50 entries
  resumelens logs --level debug --tail 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := logger.ParseLevel(level)
			if err != nil {
				return err
			}

			cfg := GetGlobalConfig()
			path := cfg.LogFile()
			if path == "" {
				path = logger.DefaultFile()
			}

			records, err := logger.ReadFile(path, cfg.Logging.Format == "json")
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no log file at %s", path)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			records = logger.Filter(records, minLevel, tail)
			if len(records) == 0 {
				fmt.Fprintf(out, "%s No entries at %s or above in %s\n",
					emoji.GetEmoji("info"), strings.ToUpper(level), path)
				return nil
			}
			for _, r := range records {
				component := ""
				if r.Component != "" {
					component = " " + r.Component
				}
				fmt.Fprintf(out, "[%s] %s%s: %s\n", r.Time.Format("15:04:05"), r.Level, component, r.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "warn", "minimum level (debug, info, warn, error)")
	cmd.Flags().IntVarP(&tail, "tail", "n", 20, "show only the last N entries (0 for all)")

	return cmd
}
