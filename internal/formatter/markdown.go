package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	now func() time.Time
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{now: time.Now}
}

func (f *markdownFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("no report to format")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", f.now().Format("2006-01-02 15:04:05"))

	f.writeTableOfContents(&b, r)
	for _, section := range r.Sections {
		f.writeSection(&b, section)
	}
	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTableOfContents(b *strings.Builder, r *report.Report) {
	b.WriteString("## Table of Contents\n")
	for _, section := range r.Sections {
		fmt.Fprintf(b, "- [%s](#%s)\n", section.Title, anchor(section.Title))
	}
	b.WriteString("\n")
}

// writeSection writes scalar fields as a table and list fields as
// sub-headings with bullets.
func (f *markdownFormatter) writeSection(b *strings.Builder, section report.Section) {
	fmt.Fprintf(b, "## %s\n\n", section.Title)

	var lists []report.Field
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	for _, field := range section.Fields {
		if field.IsList() {
			lists = append(lists, field)
			fmt.Fprintf(b, "| %s | see below |\n", field.Label)
			continue
		}
		fmt.Fprintf(b, "| %s | %s |\n", field.Label, escapeCell(field.Value))
	}
	b.WriteString("\n")

	for _, field := range lists {
		fmt.Fprintf(b, "### %s\n\n", field.Label)
		for _, item := range field.Items {
			line := "- **" + item.Heading + "**"
			if item.Text != "" {
				line += " " + escapeCell(item.Text)
			}
			b.WriteString(line + "\n")
			if item.Detail != "" {
				fmt.Fprintf(b, "  %s\n", escapeCell(item.Detail))
			}
		}
		b.WriteString("\n")
	}
}

func (f *markdownFormatter) FormatHistory(list []api.Summary) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Analysis History\n\n")

	if len(list) == 0 {
		b.WriteString(flow.EmptyHistoryText + "\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| ID | Name | File |\n")
	b.WriteString("|----|------|------|\n")
	for _, s := range list {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(string(s.ID)), escapeCell(flow.EntryTitle(s)), escapeCell(orPlaceholder(s.Filename)))
	}
	return []byte(b.String()), nil
}

// anchor mirrors GitHub's heading slugs for the titles used here
func anchor(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", "<br>")
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return report.Placeholder
	}
	return s
}
