package ui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
	"github.com/yildizm/ResumeLens/internal/ui/components"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// HistoryModel is the "History" view. It lists past analyses and opens
// one at a time in a detail overlay.
type HistoryModel struct {
	ctx      context.Context
	svc      Service
	instance int
	logger   *slog.Logger

	flow     *flow.History
	list     *components.List
	spinner  *components.Spinner
	overlay  *detailOverlay
	overlays int

	width  int
	height int
}

// NewHistoryModel creates the view; loading starts in Init.
func NewHistoryModel(ctx context.Context, svc Service, instance int, logger *slog.Logger) *HistoryModel {
	list := components.NewList("", 80, 20)
	list.EmptyText = flow.EmptyHistoryText
	return &HistoryModel{
		ctx:      ctx,
		svc:      svc,
		instance: instance,
		logger:   logger,
		flow:     flow.NewHistory(),
		list:     list,
		spinner:  components.NewSpinner(flow.LoadingHistoryText),
	}
}

// Init loads the history once for this activation
func (m *HistoryModel) Init() tea.Cmd {
	return m.load()
}

// Flow exposes the underlying history state
func (m *HistoryModel) Flow() *flow.History {
	return m.flow
}

// Overlay returns the open detail overlay, or nil
func (m *HistoryModel) Overlay() *flow.Detail {
	if m.overlay == nil {
		return nil
	}
	return m.overlay.flow
}

// SetSize sizes the list and any open overlay
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
	if m.overlay != nil {
		m.overlay.setSize(width, height)
	}
}

func (m *HistoryModel) load() tea.Cmd {
	ticket := m.flow.Begin()
	m.spinner.Reset()
	return loadHistoryCmd(m.ctx, m.svc, m.instance, ticket)
}

// Open shows the detail overlay for entry i.
func (m *HistoryModel) Open(i int) tea.Cmd {
	id, ok := m.flow.Select(i)
	if !ok {
		return nil
	}
	if m.overlay != nil {
		m.overlay.flow.Dismiss()
	}
	m.overlays++
	m.overlay = newDetailOverlay(m.overlays, id, m.width, m.height)
	ticket := m.overlay.flow.Begin()
	m.logger.Debug("fetching resume details", slog.String("id", string(id)))
	return fetchDetailCmd(m.ctx, m.svc, m.instance, m.overlay.id, ticket, id)
}

// Dismiss closes the overlay, if any.
func (m *HistoryModel) Dismiss() {
	if m.overlay == nil {
		return
	}
	m.overlay.flow.Dismiss()
	m.overlay = nil
}

// Update handles keys and responses for this view.
func (m *HistoryModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		m.spinner.Tick()
		if m.overlay != nil {
			m.overlay.spinner.Tick()
		}
	case historyLoadedMsg:
		if msg.instance != m.instance {
			return nil
		}
		if m.flow.Resolve(msg.ticket, msg.list, msg.err) {
			m.onLoaded(msg.err)
		}
	case detailLoadedMsg:
		if msg.instance != m.instance || m.overlay == nil || msg.overlay != m.overlay.id {
			return nil
		}
		m.overlay.resolve(msg.ticket, msg.record, msg.err)
	}
	return nil
}

func (m *HistoryModel) onLoaded(err error) {
	if err != nil {
		m.logger.Warn("history request failed", slog.String("error", err.Error()))
		return
	}
	entries, _ := m.flow.Entries()
	items := make([]components.ListItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, components.ListItem{
			ID:          string(e.ID),
			Title:       flow.EntryTitle(e),
			Description: entryFile(e.Filename),
			Icon:        emoji.GetEmoji("document"),
			Action:      flow.ViewDetailsLabel,
		})
	}
	m.list.SetItems(items)
}

func entryFile(name string) string {
	if strings.TrimSpace(name) == "" {
		return report.Placeholder
	}
	return name
}

func (m *HistoryModel) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if m.overlay != nil {
		switch msg.String() {
		case "esc", "backspace":
			m.Dismiss()
		case "pgup", "up", "k":
			m.overlay.viewer.ScrollUp(1)
		case "pgdown", "down", "j":
			m.overlay.viewer.ScrollDown(1)
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		m.list.MoveUp()
	case "down", "j":
		m.list.MoveDown()
	case "enter", " ":
		return m.Open(m.list.SelectedIndex())
	case "r":
		if !m.flow.Loading() {
			return m.load()
		}
	}
	return nil
}

// View renders the list, or the overlay on top of it.
func (m *HistoryModel) View() string {
	if m.overlay != nil {
		return m.overlay.view()
	}

	styles := theme.GetStyles()
	title := styles.Header.Render(emoji.GetEmoji("history") + " Analysis History")

	var body string
	switch {
	case m.flow.Loading():
		body = m.spinner.Render()
	case m.flow.Error() != "":
		body = styles.Error.Render(emoji.GetEmoji("error")+" "+m.flow.Error()) +
			"\n" + styles.Muted.Render("Press r to retry")
	case m.flow.Empty():
		body = styles.Muted.Render(flow.EmptyHistoryText)
	default:
		body = m.list.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body)
}
