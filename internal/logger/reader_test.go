package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func writeSampleLog(t *testing.T, jsonFormat bool) string {
	t.Helper()
	var buf bytes.Buffer
	l, closer, err := Open(Options{Writer: &buf, Verbose: true, JSON: jsonFormat})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer closer.Close()

	l.Debug("starting")
	WithComponent(l, "api").Info("upload done", Count(1))
	WithComponent(l, "api").Warn("request failed", Error(errors.New("connection refused")))
	l.Error("giving up")
	return buf.String()
}

func TestParse(t *testing.T) {
	for _, jsonFormat := range []bool{false, true} {
		name := "text"
		if jsonFormat {
			name = "json"
		}
		t.Run(name, func(t *testing.T) {
			records, err := Parse(writeSampleLog(t, jsonFormat), jsonFormat)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(records) != 4 {
				t.Fatalf("Expected 4 records, got %d", len(records))
			}

			warn := records[2]
			if warn.Level != slog.LevelWarn {
				t.Errorf("Expected WARN, got %v", warn.Level)
			}
			if warn.Message != "request failed" {
				t.Errorf("Expected message 'request failed', got %q", warn.Message)
			}
			if warn.Component != "api" {
				t.Errorf("Expected component api, got %q", warn.Component)
			}
			if warn.Time.IsZero() {
				t.Error("Expected a timestamp")
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	records, err := Parse("  \n", false)
	if err != nil || len(records) != 0 {
		t.Errorf("Expected no records, got %v, %v", records, err)
	}
}

func TestFilter(t *testing.T) {
	records := []Record{
		{Level: slog.LevelDebug, Message: "a"},
		{Level: slog.LevelWarn, Message: "b"},
		{Level: slog.LevelError, Message: "c"},
		{Level: slog.LevelWarn, Message: "d"},
	}

	tests := []struct {
		name  string
		level slog.Level
		tail  int
		want  []string
	}{
		{"all", slog.LevelDebug, 0, []string{"a", "b", "c", "d"}},
		{"warn and above", slog.LevelWarn, 0, []string{"b", "c", "d"}},
		{"tail", slog.LevelWarn, 2, []string{"c", "d"}},
		{"errors only", slog.LevelError, 5, []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.level, tt.tail)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d records, got %d", len(tt.want), len(got))
			}
			for i, r := range got {
				if r.Message != tt.want[i] {
					t.Errorf("Expected %s at %d, got %s", tt.want[i], i, r.Message)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "none.log"), false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}
