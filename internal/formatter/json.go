package formatter

import (
	"encoding/json"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Format(r *report.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// HistoryEntry is one element of the JSON history listing
type HistoryEntry struct {
	ID       api.ID `json:"id"`
	Title    string `json:"title"`
	Name     string `json:"name,omitempty"`
	Filename string `json:"filename"`
}

func (f *jsonFormatter) FormatHistory(list []api.Summary) ([]byte, error) {
	entries := make([]HistoryEntry, 0, len(list))
	for _, s := range list {
		entries = append(entries, HistoryEntry{
			ID:       s.ID,
			Title:    flow.EntryTitle(s),
			Name:     s.Name,
			Filename: s.Filename,
		})
	}
	return json.MarshalIndent(entries, "", "  ")
}
