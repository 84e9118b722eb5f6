package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/ui/components"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// detailOverlay pairs a Detail flow with its viewer. Each overlay gets its
// own id so responses for a replaced overlay are ignored.
type detailOverlay struct {
	id      int
	flow    *flow.Detail
	spinner *components.Spinner
	viewer  *components.ReportViewer
}

func newDetailOverlay(id int, rid api.ID, width, height int) *detailOverlay {
	o := &detailOverlay{
		id:      id,
		flow:    flow.NewDetail(rid),
		spinner: components.NewSpinner(flow.FetchingDetailText),
		viewer:  components.NewReportViewer(nil, width, height),
	}
	o.setSize(width, height)
	return o
}

func (o *detailOverlay) setSize(width, height int) {
	o.viewer.SetSize(max(20, width-6), max(5, height-6))
}

func (o *detailOverlay) resolve(t flow.Ticket, rec *api.Record, err error) {
	if o.flow.Resolve(t, rec, err) {
		o.viewer.Report = o.flow.Report()
		o.viewer.Offset = 0
	}
}

func (o *detailOverlay) view() string {
	styles := theme.GetStyles()

	var body string
	switch {
	case o.flow.Loading():
		body = o.spinner.Render()
	case o.flow.Error() != "":
		body = styles.Error.Render(emoji.GetEmoji("error") + " " + o.flow.Error())
	default:
		body = o.viewer.Render()
	}

	footer := styles.Muted.Render("esc: close")
	if hint := o.viewer.ScrollHint(); hint != "" && o.viewer.Report != nil {
		footer = styles.Muted.Render(fmt.Sprintf("%s  esc: close", hint))
	}
	return styles.Overlay.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", footer))
}
