package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
	"github.com/yildizm/go-termfmt"
)

// terminalFormatter formats output as plain text for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = !emoji.IsEmojiDisabled()
	return &terminalFormatter{opts: opts}
}

func (f *terminalFormatter) Format(r *report.Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("no report to format")
	}

	var b strings.Builder
	f.writeHeader(&b, r.Title)
	for _, section := range r.Sections {
		f.writeSection(&b, section)
	}
	return []byte(b.String()), nil
}

// writeHeader writes a boxed title
func (f *terminalFormatter) writeHeader(b *strings.Builder, title string) {
	width := len([]rune(title))

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + title + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeSection renders one section as a go-termfmt tree. List fields
// become branches with one child per item.
func (f *terminalFormatter) writeSection(b *strings.Builder, section report.Section) {
	b.WriteString(sectionSymbol(section.Title, f.opts) + " " + section.Title + "\n")

	items := make([]termfmt.TreeItem, 0, len(section.Fields))
	for i, field := range section.Fields {
		item := termfmt.TreeItem{Label: field.Label, Last: i == len(section.Fields)-1}
		if field.IsList() {
			item.Children = listChildren(field.Items)
		} else {
			item.Value = field.Value
		}
		items = append(items, item)
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts))
	b.WriteString("\n\n")
}

func listChildren(items []report.Item) []termfmt.TreeItem {
	children := make([]termfmt.TreeItem, 0, len(items))
	for i, it := range items {
		child := termfmt.TreeItem{Label: it.Heading, Value: it.Text, Last: i == len(items)-1}
		if it.Detail != "" {
			child.Children = []termfmt.TreeItem{{Label: it.Detail, Last: true}}
		}
		children = append(children, child)
	}
	return children
}

func sectionSymbol(title string, opts *termfmt.TerminalOptions) string {
	switch title {
	case report.SectionFeedback:
		return termfmt.GetEmoji("insight", opts)
	default:
		return termfmt.GetEmoji("statistics", opts)
	}
}

// FormatHistory lists past analyses, one line per entry in service order.
func (f *terminalFormatter) FormatHistory(list []api.Summary) ([]byte, error) {
	var b strings.Builder
	f.writeHeader(&b, "Analysis History")

	if len(list) == 0 {
		b.WriteString(flow.EmptyHistoryText + "\n")
		return []byte(b.String()), nil
	}

	items := make([]termfmt.TreeItem, 0, len(list))
	for i, s := range list {
		items = append(items, termfmt.TreeItem{
			Label: flow.EntryTitle(s),
			Value: historyValue(s),
			Last:  i == len(list)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts))
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func historyValue(s api.Summary) string {
	if s.Filename == "" {
		return "id " + string(s.ID)
	}
	return fmt.Sprintf("%s (id %s)", s.Filename, s.ID)
}
