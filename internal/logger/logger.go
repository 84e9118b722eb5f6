package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Options control where logs go and how much is written.
type Options struct {
	// File receives the log when set; otherwise Writer is used.
	File    string
	Writer  io.Writer
	Verbose bool
	// JSON switches the handler from text to JSON lines.
	JSON bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds a structured logger. Verbose lowers the level to debug.
// The returned Closer releases the log file, if one was opened.
func Open(opts Options) (*slog.Logger, io.Closer, error) {
	w := opts.Writer
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}
	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h), closer, nil
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WithComponent tags every record of l with a component name
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = Discard()
	}
	return l.With(slog.String("component", component))
}

// DefaultFile is the log location used by the interactive UI.
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "resumelens", "resumelens.log")
}

// Helper attributes for common fields

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Count(n int) slog.Attr {
	return slog.Int("count", n)
}
