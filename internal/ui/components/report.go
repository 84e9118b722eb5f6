package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/report"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// ReportViewer draws a report.Report as a scrollable panel.
type ReportViewer struct {
	Report *report.Report
	Width  int
	Height int
	Offset int
}

// NewReportViewer creates a viewer for r
func NewReportViewer(r *report.Report, width, height int) *ReportViewer {
	return &ReportViewer{Report: r, Width: width, Height: height}
}

// SetSize updates the viewport, keeping the offset in range
func (v *ReportViewer) SetSize(width, height int) {
	v.Width = width
	v.Height = height
	v.clamp()
}

// ScrollUp moves the viewport up by n lines
func (v *ReportViewer) ScrollUp(n int) {
	v.Offset -= n
	v.clamp()
}

// ScrollDown moves the viewport down by n lines
func (v *ReportViewer) ScrollDown(n int) {
	v.Offset += n
	v.clamp()
}

func (v *ReportViewer) clamp() {
	maxOffset := max(0, len(v.Lines())-v.Height)
	v.Offset = min(max(0, v.Offset), maxOffset)
}

// Lines renders the whole report, one terminal line per entry.
func (v *ReportViewer) Lines() []string {
	if v.Report == nil {
		return nil
	}
	styles := theme.GetStyles()
	width := max(20, v.Width)

	lines := []string{styles.Header.Render(v.Report.Title), ""}
	for _, section := range v.Report.Sections {
		lines = append(lines, styles.Subheader.Render(section.Title))
		for _, field := range section.Fields {
			lines = append(lines, renderField(styles, field, width)...)
		}
		lines = append(lines, "")
	}

	// wrapped values span several terminal lines
	var flat []string
	for _, l := range lines {
		flat = append(flat, strings.Split(l, "\n")...)
	}
	return flat
}

// Render draws the visible window of the report.
func (v *ReportViewer) Render() string {
	lines := v.Lines()
	if len(lines) == 0 {
		return ""
	}

	visible := lines
	if v.Height > 0 && len(lines) > v.Height {
		v.clamp()
		visible = lines[v.Offset:min(len(lines), v.Offset+v.Height)]
	}
	return strings.Join(visible, "\n")
}

// ScrollHint describes the scroll position, empty when everything fits.
func (v *ReportViewer) ScrollHint() string {
	total := len(v.Lines())
	if v.Height <= 0 || total <= v.Height {
		return ""
	}
	return fmt.Sprintf("PgUp/PgDn to scroll (%d-%d of %d)", v.Offset+1, min(total, v.Offset+v.Height), total)
}

func renderField(styles *theme.Styles, field report.Field, width int) []string {
	label := styles.Label.Render(field.Label + ":")
	if !field.IsList() {
		value := lipgloss.NewStyle().Width(max(10, width-len(field.Label)-4)).Render(field.Value)
		return []string{lipgloss.JoinHorizontal(lipgloss.Top, "  ", label, " ", value)}
	}

	lines := []string{"  " + label}
	wrap := lipgloss.NewStyle().Width(max(10, width-8))
	for _, item := range field.Items {
		head := "    • " + styles.Body.Bold(true).Render(item.Heading)
		if item.Text != "" {
			head += " " + item.Text
		}
		lines = append(lines, head)
		if item.Detail != "" {
			for _, l := range strings.Split(wrap.Render(item.Detail), "\n") {
				lines = append(lines, "      "+styles.Muted.Render(l))
			}
		}
	}
	return lines
}
