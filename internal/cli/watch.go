package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/formatter"
	"github.com/yildizm/ResumeLens/internal/logger"
)

// settleDelay is how long a new file must stay quiet before it is read.
const settleDelay = 500 * time.Millisecond

func newWatchCommand() *cobra.Command {
	var existing bool

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Analyze every new PDF dropped into a directory",
		Long: `Watch a directory and submit each PDF that appears in it to the analysis
service, printing the report as soon as it arrives. Each file is analyzed
once per run. Press Ctrl+C to stop.`,
		Example: `  # Analyze resumes as they land in ./inbox
  resumelens watch ./inbox

  # Analyze the PDFs already there too
  resumelens watch ./inbox --existing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], existing)
		},
	}

	cmd.Flags().BoolVar(&existing, "existing", false, "also analyze PDFs already in the directory")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, existing bool) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

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

	w := &dirWatcher{
		dir:    dir,
		client: client,
		format: f,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		logger: logger.WithComponent(log, "watch"),
		seen:   make(map[string]bool),
	}
	return w.run(ctx, existing)
}

// dirWatcher submits each PDF that appears in dir exactly once.
type dirWatcher struct {
	dir    string
	client *api.Client
	format formatter.Formatter
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	seen   map[string]bool
}

func (w *dirWatcher) run(ctx context.Context, existing bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	if existing {
		paths, err := existingPDFs(w.dir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			w.process(ctx, path)
		}
	} else {
		// Files present at startup are not new.
		paths, _ := existingPDFs(w.dir)
		for _, path := range paths {
			w.seen[path] = true
		}
	}

	w.logger.Info("watching directory", "dir", w.dir)
	if isVerbose() {
		fmt.Fprintf(w.errOut, "Watching %s for new PDF files (Ctrl+C to stop)\n", w.dir)
	}

	settled := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped", "analyzed", len(w.seen))
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !document.IsPDF(ev.Name) || w.seen[ev.Name] {
				continue
			}
			// Restart the settle timer while the file is still being written.
			path := ev.Name
			if t, ok := timers[path]; ok {
				t.Reset(settleDelay)
				continue
			}
			timers[path] = time.AfterFunc(settleDelay, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})

		case path := <-settled:
			delete(timers, path)
			w.process(ctx, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logger.Error(err))
		}
	}
}

// process analyzes one file and prints its report. Failures are reported
// and the watch continues.
func (w *dirWatcher) process(ctx context.Context, path string) {
	if w.seen[path] {
		return
	}
	w.seen[path] = true

	doc, err := document.Inspect(path)
	if err != nil {
		w.logger.Warn("skipping file", "path", path, logger.Error(err))
		fmt.Fprintf(w.errOut, "Skipping %s: %v\n", path, err)
		return
	}

	rpt, err := analyzeDocument(ctx, w.client, doc, w.errOut)
	if err != nil {
		w.logger.Warn("analysis failed", "path", path, logger.Error(err))
		fmt.Fprintf(w.errOut, "Error: %v\n", err)
		return
	}

	data, err := w.format.Format(rpt)
	if err != nil {
		fmt.Fprintf(w.errOut, "Error: failed to format report for %s: %v\n", path, err)
		return
	}
	if _, err := w.out.Write(data); err != nil {
		w.logger.Warn("failed to write report", logger.Error(err))
	}
}

func existingPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !document.IsPDF(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
