package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, closer, err := Open(Options{Writer: &buf, Verbose: tt.verbose})
			if err != nil {
				t.Fatalf("Open() error: %v", err)
			}
			defer closer.Close()

			l.Debug("debug line")
			l.Info("info line")

			if got := strings.Contains(buf.String(), "debug line"); got != tt.wantDebug {
				t.Errorf("Expected debug output %v, got %v", tt.wantDebug, got)
			}
			if !strings.Contains(buf.String(), "info line") {
				t.Errorf("Expected info output, got %q", buf.String())
			}
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	l, closer, err := Open(Options{File: path, JSON: true})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	WithComponent(l, "api").Warn("request failed", Error(errors.New("boom")), Count(2))
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	for _, want := range []string{`"component":"api"`, `"error":"boom"`, `"count":2`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected %s in %s", want, data)
		}
	}
}

func TestWithComponentNil(t *testing.T) {
	if WithComponent(nil, "ui") == nil {
		t.Errorf("Expected a usable logger")
	}
}
