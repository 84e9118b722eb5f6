package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
)

func newAnalyzeCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "analyze <file.pdf>",
		Short: "Analyze a resume without the interactive UI",
		Long: `Submit a PDF resume to the analysis service and print the report.

The report lists the extracted data (name, email, phone, skills, experience,
education) followed by the AI feedback.`,
		Example: `  # Analyze a resume and print the report
  resumelens analyze resume.pdf

  # Write the report as markdown
  resumelens analyze resume.pdf -o markdown --output-file report.md

  # Use another service
  resumelens analyze resume.pdf --api-url http://analyzer.local:8000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], outputFile)
		},
	}

	cmd.Flags().StringVar(&outputFile, "output-file", "", "write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path, outputFile string) error {
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

	doc, err := document.Inspect(path)
	if err != nil {
		return fmt.Errorf("cannot use %s: %w", path, err)
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	rpt, err := analyzeDocument(ctx, client, doc, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	data, err := f.Format(rpt)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	return writeOutput(cmd.OutOrStdout(), outputFile, data)
}

// analyzeDocument drives one submission to completion. Progress goes to
// errOut when verbose.
func analyzeDocument(ctx context.Context, client *api.Client, doc *document.Document, errOut io.Writer) (*report.Report, error) {
	sub := flow.NewSubmission()
	if err := sub.Choose(doc); err != nil {
		return nil, err
	}

	ticket, err := sub.Begin()
	if err != nil {
		return nil, err
	}

	if isVerbose() {
		fmt.Fprintf(errOut, "%s %s\n", flow.SubmittingText, doc.Describe())
	}
	start := time.Now()

	rec, err := client.Submit(ctx, doc)
	sub.Resolve(ticket, rec, err)
	if msg := sub.Error(); msg != "" {
		return nil, fmt.Errorf("analysis of %s failed: %s%s", doc.Name, msg, unreachableHint(ctx, client, err))
	}

	if isVerbose() {
		fmt.Fprintf(errOut, "%s (%v)\n", sub.Success(), time.Since(start).Round(time.Millisecond))
	}
	return sub.Report(), nil
}

// unreachableHint names the configured service when a request got no
// response at all.
func unreachableHint(ctx context.Context, client *api.Client, err error) string {
	var reqErr *api.RequestError
	if ctx.Err() != nil || !errors.As(err, &reqErr) || !reqErr.Transport() {
		return ""
	}
	return fmt.Sprintf(" (is the service running at %s?)", client.BaseURL())
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
	}
	return nil
}
