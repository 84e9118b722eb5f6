package ui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/ui/components"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// SubmissionModel is the "New Analysis" view: pick a PDF, submit it and
// read the resulting report.
type SubmissionModel struct {
	ctx      context.Context
	svc      Service
	instance int
	logger   *slog.Logger

	flow    *flow.Submission
	picker  *Picker
	spinner *components.Spinner
	viewer  *components.ReportViewer
	pickErr string

	width  int
	height int
}

// NewSubmissionModel creates the view browsing startDir.
func NewSubmissionModel(ctx context.Context, svc Service, instance int, startDir string, logger *slog.Logger) *SubmissionModel {
	return &SubmissionModel{
		ctx:      ctx,
		svc:      svc,
		instance: instance,
		logger:   logger,
		flow:     flow.NewSubmission(),
		picker:   newPicker(instance, startDir, logger),
		spinner:  components.NewSpinner(flow.SubmittingText),
		viewer:   components.NewReportViewer(nil, 80, 20),
	}
}

// Init starts the file browser
func (m *SubmissionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Close releases the directory watcher
func (m *SubmissionModel) Close() {
	m.picker.Close()
}

// Flow exposes the underlying submission state
func (m *SubmissionModel) Flow() *flow.Submission {
	return m.flow
}

// SetSize splits the area between the picker and the report
func (m *SubmissionModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.SetSize(width, max(6, height/3))
	m.viewer.SetSize(width, max(5, height-height/3-6))
}

// Choose selects doc as if it was picked in the browser. The choice is
// refused while an analysis is running.
func (m *SubmissionModel) Choose(doc *document.Document) error {
	if err := m.flow.Choose(doc); err != nil {
		m.logger.Debug("selection ignored", slog.String("file", doc.Name), slog.String("error", err.Error()))
		return err
	}
	m.pickErr = ""
	m.viewer.Report = nil
	m.viewer.Offset = 0
	return nil
}

// Submit starts analysis of the chosen document.
func (m *SubmissionModel) Submit() tea.Cmd {
	ticket, err := m.flow.Begin()
	if err != nil {
		// busy or nothing chosen; the flow records the notice
		return nil
	}
	m.spinner.Reset()
	m.logger.Info("submitting resume", slog.String("file", m.flow.Document().Name))
	return submitCmd(m.ctx, m.svc, m.instance, ticket, m.flow.Document())
}

// Update handles keys and responses for this view.
func (m *SubmissionModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		if m.flow.Busy() {
			m.spinner.Tick()
		}
	case submitDoneMsg:
		if msg.instance != m.instance {
			return nil
		}
		if m.flow.Resolve(msg.ticket, msg.record, msg.err) {
			m.onResolved(msg.err)
		}
	default:
		return m.picker.Update(msg)
	}
	return nil
}

func (m *SubmissionModel) onResolved(err error) {
	if err != nil {
		m.logger.Warn("analysis failed", slog.String("error", err.Error()))
		return
	}
	m.viewer.Report = m.flow.Report()
	m.viewer.Offset = 0
	m.logger.Info("analysis complete")
}

func (m *SubmissionModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "s", "ctrl+s":
		return m.Submit()
	case "pgup":
		m.viewer.ScrollUp(max(1, m.viewer.Height/2))
		return nil
	case "pgdown":
		m.viewer.ScrollDown(max(1, m.viewer.Height/2))
		return nil
	}

	doc, cmd, err := m.picker.HandleKey(msg.String())
	switch {
	case err != nil:
		m.pickErr = err.Error()
	case doc != nil:
		_ = m.Choose(doc)
	}
	return cmd
}

// View renders picker, submit control, status and report.
func (m *SubmissionModel) View() string {
	styles := theme.GetStyles()

	sections := []string{
		m.picker.View(),
		"",
		styles.Label.Render("Selected: ") + m.flow.FileLabel(),
		m.renderButton(styles),
	}

	if status := m.renderStatus(styles); status != "" {
		sections = append(sections, status)
	}

	if m.viewer.Report != nil && m.flow.Phase() == flow.PhaseReportReady {
		sections = append(sections, "", m.viewer.Render())
		if hint := m.viewer.ScrollHint(); hint != "" {
			sections = append(sections, styles.Muted.Render(hint))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *SubmissionModel) renderButton(styles *theme.Styles) string {
	label := emoji.GetEmoji("upload") + " " + m.flow.Label()
	button := styles.Button
	if m.flow.Busy() {
		button = styles.Muted
	}
	return button.Render(label) + " " + styles.Muted.Render("(s)")
}

func (m *SubmissionModel) renderStatus(styles *theme.Styles) string {
	var lines []string
	if m.pickErr != "" {
		lines = append(lines, styles.Warning.Render(emoji.GetEmoji("warning")+" "+m.pickErr))
	}
	if notice := m.flow.Notice(); notice != "" {
		lines = append(lines, styles.Warning.Render(emoji.GetEmoji("warning")+" "+notice))
	}

	switch m.flow.Phase() {
	case flow.PhaseSubmitting:
		lines = append(lines, m.spinner.Render())
	case flow.PhaseSubmitFailed:
		lines = append(lines, styles.Error.Render(emoji.GetEmoji("error")+" "+m.flow.Error()))
	case flow.PhaseReportReady:
		lines = append(lines, styles.Success.Render(emoji.GetEmoji("success")+" "+m.flow.Success()))
	}
	return strings.Join(lines, "\n")
}
