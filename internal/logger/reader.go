package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/yildizm/go-logparser"
)

// Record is one parsed line of a log written by Open.
type Record struct {
	Time      time.Time
	Level     slog.Level
	Component string
	Message   string
}

// ReadFile parses a log file. jsonFormat selects the handler format the
// file was written with.
func ReadFile(path string, jsonFormat bool) ([]Record, error) {
	// #nosec G304 - the path comes from the user's own configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return Parse(string(data), jsonFormat)
}

// Parse parses log lines written by Open
func Parse(data string, jsonFormat bool) ([]Record, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}

	format := logparser.FormatLogfmt
	if jsonFormat {
		format = logparser.FormatJSON
	}

	entries, err := logparser.NewWithFormat(format).ParseString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for i := range entries {
		records = append(records, toRecord(&entries[i]))
	}
	return records, nil
}

// Filter keeps records at or above level, then the last tail of them.
// tail <= 0 keeps everything.
func Filter(records []Record, level slog.Level, tail int) []Record {
	var kept []Record
	for _, r := range records {
		if r.Level >= level {
			kept = append(kept, r)
		}
	}
	if tail > 0 && len(kept) > tail {
		kept = kept[len(kept)-tail:]
	}
	return kept
}

// ParseLevel accepts slog level names such as "debug" or "WARN".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid level %q (must be one of: debug, info, warn, error)", s)
	}
	return l, nil
}

// toRecord maps a parsed entry, falling back to the raw slog keys when the
// parser did not recognise them.
func toRecord(e *logparser.LogEntry) Record {
	r := Record{
		Time:    e.Timestamp,
		Message: e.Message,
	}

	level := e.Level
	if level == "" {
		level = field(e, slog.LevelKey)
	}
	if l, err := ParseLevel(level); err == nil {
		r.Level = l
	}

	if r.Message == "" {
		r.Message = field(e, slog.MessageKey)
	}
	if r.Time.IsZero() {
		if t, err := time.Parse(time.RFC3339Nano, field(e, slog.TimeKey)); err == nil {
			r.Time = t
		}
	}
	r.Component = field(e, "component")
	return r
}

func field(e *logparser.LogEntry, key string) string {
	v, ok := e.Fields[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
