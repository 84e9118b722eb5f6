package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/flow"
)

func newHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List previously analyzed resumes",
		Long: `List every resume the analysis service has stored, newest first as the
service returns them. Use "history show <id>" to print one analysis.`,
		Example: `  # List past analyses
  resumelens history

  # Print one analysis as JSON
  resumelens history show 42 -o json`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	historyCmd.AddCommand(newHistoryShowCommand())

	return historyCmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	f, err := getFormatter()
	if err != nil {
		return err
	}

	log, closer, err := openLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLogger(closer)

	client, err := newClient(log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	h := flow.NewHistory()
	ticket := h.Begin()
	if isVerbose() {
		fmt.Fprintln(cmd.ErrOrStderr(), flow.LoadingHistoryText)
	}
	list, err := client.ListHistory(ctx)
	h.Resolve(ticket, list, err)
	if msg := h.Error(); msg != "" {
		return fmt.Errorf("failed to load history: %s%s", msg, unreachableHint(ctx, client, err))
	}

	entries, _ := h.Entries()
	data, err := f.FormatHistory(entries)
	if err != nil {
		return fmt.Errorf("failed to format history: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), "", data)
}

func newHistoryShowCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one stored analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return fmt.Errorf("resume id must not be empty")
			}
			return runHistoryShow(cmd, api.ID(id), outputFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output-file", "", "write the report to a file instead of stdout")

	return cmd
}

func runHistoryShow(cmd *cobra.Command, id api.ID, outputFile string) error {
	f, err := getFormatter()
	if err != nil {
		return err
	}

	log, closer, err := openLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLogger(closer)

	client, err := newClient(log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	d := flow.NewDetail(id)
	ticket := d.Begin()
	if isVerbose() {
		fmt.Fprintln(cmd.ErrOrStderr(), flow.FetchingDetailText)
	}
	rec, err := client.FetchDetail(ctx, id)
	d.Resolve(ticket, rec, err)
	if msg := d.Error(); msg != "" {
		return fmt.Errorf("failed to load resume %s: %s%s", string(id), msg, unreachableHint(ctx, client, err))
	}

	data, err := f.Format(d.Report())
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), outputFile, data)
}
