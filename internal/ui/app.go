package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

// Header texts
const (
	AppTitle    = "Smart Resume Analyzer"
	AppSubtitle = "Upload your resume to get AI-powered feedback and insights."
)

// Tab selects the visible view
type Tab int

const (
	TabSubmission Tab = iota
	TabHistory
)

var tabNames = []string{"New Analysis", "History"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "unknown"
}

// Options configure the interactive app
type Options struct {
	// StartDir is where the file picker opens; "" means the working directory.
	StartDir string
	Logger   *slog.Logger
}

// App is the tab container. Only the visible view exists; switching tabs
// discards it and builds a fresh instance of the other one.
type App struct {
	ctx    context.Context
	svc    Service
	opts   Options
	logger *slog.Logger

	width    int
	height   int
	ready    bool
	quitting bool

	active       Tab
	nextInstance int
	submission   *SubmissionModel
	history      *HistoryModel
}

// NewApp creates the container showing the submission view.
func NewApp(ctx context.Context, svc Service, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		ctx:    ctx,
		svc:    svc,
		opts:   opts,
		logger: logger,
		active: TabSubmission,
	}
}

// Init builds the first view and starts the UI tick
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.activate(TabSubmission), tick())
}

// Active returns the visible tab
func (a *App) Active() Tab {
	return a.active
}

// Submission returns the live submission view, or nil on the history tab
func (a *App) Submission() *SubmissionModel {
	return a.submission
}

// History returns the live history view, or nil on the submission tab
func (a *App) History() *HistoryModel {
	return a.history
}

// activate tears down the current view and builds tab from scratch.
func (a *App) activate(tab Tab) tea.Cmd {
	if a.submission != nil {
		a.submission.Close()
		a.submission = nil
	}
	if a.history != nil {
		a.history.Dismiss()
		a.history = nil
	}

	a.active = tab
	a.nextInstance++
	a.logger.Debug("switching view", slog.String("tab", tab.String()), slog.Int("instance", a.nextInstance))

	var cmd tea.Cmd
	switch tab {
	case TabHistory:
		a.history = NewHistoryModel(a.ctx, a.svc, a.nextInstance, a.logger)
		cmd = a.history.Init()
	default:
		a.submission = NewSubmissionModel(a.ctx, a.svc, a.nextInstance, a.opts.StartDir, a.logger)
		cmd = a.submission.Init()
	}
	a.resize()
	return cmd
}

// Update routes messages to the visible view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		return a, nil
	case tea.KeyMsg:
		return a.handleKeyPress(msg)
	case tickMsg:
		a.forward(msg)
		return a, tick()
	}
	return a, a.forward(msg)
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch {
	case a.submission != nil:
		return a.submission.Update(msg)
	case a.history != nil:
		return a.history.Update(msg)
	}
	return nil
}

func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		a.quitting = true
		if a.submission != nil {
			a.submission.Close()
		}
		return a, tea.Quit
	case "tab", "shift+tab":
		return a, a.activate(1 - a.active)
	case "1":
		return a, a.switchTo(TabSubmission)
	case "2":
		return a, a.switchTo(TabHistory)
	}
	return a, a.forward(msg)
}

func (a *App) switchTo(tab Tab) tea.Cmd {
	if tab == a.active {
		return nil
	}
	return a.activate(tab)
}

func (a *App) resize() {
	if !a.ready {
		return
	}
	// header, tabs, help line and padding
	width, height := max(20, a.width-4), max(8, a.height-8)
	if a.submission != nil {
		a.submission.SetSize(width, height)
	}
	if a.history != nil {
		a.history.SetSize(width, height)
	}
}

// View renders header, tabs and the visible view.
func (a *App) View() string {
	styles := theme.GetStyles()

	if a.quitting {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			styles.Success.Render("Goodbye "+emoji.GetEmoji("door")))
	}
	if !a.ready {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			styles.Title.Render("Starting "+AppTitle+"..."))
	}

	var body string
	switch {
	case a.submission != nil:
		body = a.submission.View()
	case a.history != nil:
		body = a.history.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(emoji.GetEmoji("brain")+" "+AppTitle),
		styles.Muted.Render(AppSubtitle),
		"",
		a.renderTabs(styles),
		"",
		body,
		"",
		styles.Muted.Render(a.helpLine()),
	)
}

func (a *App) renderTabs(styles *theme.Styles) string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == a.active {
			tabs = append(tabs, styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, styles.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) helpLine() string {
	keys := []string{"tab: switch view", "q: quit"}
	switch {
	case a.submission != nil:
		keys = append([]string{"↑/↓: move", "enter: open/select", "backspace: parent", "s: analyze"}, keys...)
	case a.history != nil && a.history.Overlay() != nil:
		keys = []string{"↑/↓: scroll", "esc: close"}
	case a.history != nil:
		keys = append([]string{"↑/↓: move", "enter: view details", "r: reload"}, keys...)
	}
	return strings.Join(keys, "  ")
}

// Run starts the interactive app and blocks until it exits.
func Run(ctx context.Context, svc Service, opts Options) error {
	app := NewApp(ctx, svc, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
