package formatter

import (
	"fmt"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/report"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(r *report.Report) ([]byte, error)
	FormatHistory(list []api.Summary) ([]byte, error)
}

// Formats lists the accepted output format names
var Formats = []string{"text", "json", "markdown"}

// New returns the formatter for name. Color applies to text output only.
func New(name string, color bool) (Formatter, error) {
	switch name {
	case "", "text", "terminal":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use text, json or markdown)", name)
	}
}
