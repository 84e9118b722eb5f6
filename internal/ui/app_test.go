package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/emoji"
	"github.com/yildizm/ResumeLens/internal/flow"
	"github.com/yildizm/ResumeLens/internal/report"
	"github.com/yildizm/ResumeLens/internal/ui/theme"
)

func init() {
	theme.SetColorDisabled(true)
	emoji.SetEmojiDisabled(true)
}

type fakeService struct {
	record  *api.Record
	list    []api.Summary
	details map[api.ID]*api.Record
	err     error

	submits atomic.Int32
	lists   atomic.Int32
	fetches atomic.Int32
}

func (f *fakeService) Submit(ctx context.Context, doc *document.Document) (*api.Record, error) {
	f.submits.Add(1)
	return f.record, f.err
}

func (f *fakeService) ListHistory(ctx context.Context) ([]api.Summary, error) {
	f.lists.Add(1)
	return f.list, f.err
}

func (f *fakeService) FetchDetail(ctx context.Context, id api.ID) (*api.Record, error) {
	f.fetches.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.details[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func testDocument(t *testing.T, name string) *document.Document {
	t.Helper()
	doc, err := document.Inspect(writePDF(t, t.TempDir(), name))
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	return doc
}

func janeDoe() *api.Record {
	rating := api.Rating(7)
	return &api.Record{
		ID:       "1",
		Name:     "Jane Doe",
		Filename: "jane.pdf",
		Extracted: api.ExtractedData{
			Name:       "Jane Doe",
			Email:      "jane@example.com",
			CoreSkills: []api.Text{"Go"},
		},
		Feedback: api.Feedback{Rating: &rating, ImprovementAreas: "Add metrics"},
	}
}

func TestAppStartsOnSubmissionTab(t *testing.T) {
	app := NewApp(context.Background(), &fakeService{}, Options{StartDir: t.TempDir(), Logger: discardLogger()})
	app.Init()
	defer app.Submission().Close()

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if app.Active() != TabSubmission {
		t.Errorf("Expected submission tab, got %v", app.Active())
	}
	view := app.View()
	for _, want := range []string{AppTitle, "New Analysis", "History", flow.PickPrompt, flow.SubmitLabel} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestAppTabSwitchRebuildsViews(t *testing.T) {
	svc := &fakeService{list: []api.Summary{{ID: "1", Name: "Jane Doe", Filename: "jane.pdf"}}}
	app := NewApp(context.Background(), svc, Options{StartDir: t.TempDir(), Logger: discardLogger()})
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	_, cmd := app.Update(key("2"))
	if app.Active() != TabHistory || app.History() == nil || app.Submission() != nil {
		t.Fatalf("Expected only the history view to exist after switching")
	}
	if cmd == nil {
		t.Fatal("Expected history load command")
	}
	stale := cmd()

	// leave and come back: a fresh history instance must load again
	app.Update(key("1"))
	_, cmd = app.Update(key("2"))
	defer func() {
		if s := app.Submission(); s != nil {
			s.Close()
		}
	}()

	app.Update(stale)
	if !app.History().Flow().Loading() {
		t.Errorf("Expected response for torn-down instance to be dropped")
	}

	app.Update(cmd())
	entries, ok := app.History().Flow().Entries()
	if !ok || len(entries) != 1 {
		t.Fatalf("Expected 1 history entry, got %v", entries)
	}
	if svc.lists.Load() != 2 {
		t.Errorf("Expected 2 history loads, got %d", svc.lists.Load())
	}
	if !strings.Contains(app.View(), "Jane Doe") {
		t.Errorf("Expected history entry in view")
	}
}

func TestAppQuit(t *testing.T) {
	app := NewApp(context.Background(), &fakeService{}, Options{StartDir: t.TempDir(), Logger: discardLogger()})
	app.Init()

	_, cmd := app.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.QuitMsg")
	}
}

func TestSubmissionWithoutDocument(t *testing.T) {
	svc := &fakeService{record: janeDoe()}
	m := NewSubmissionModel(context.Background(), svc, 1, t.TempDir(), discardLogger())

	if cmd := m.Update(key("s")); cmd != nil {
		t.Errorf("Expected no command without a document")
	}
	if svc.submits.Load() != 0 {
		t.Errorf("Expected no service call, got %d", svc.submits.Load())
	}
	if !strings.Contains(m.View(), flow.NoDocumentMessage) {
		t.Errorf("Expected %q in view", flow.NoDocumentMessage)
	}
}

func TestSubmissionRoundTrip(t *testing.T) {
	svc := &fakeService{record: janeDoe()}
	m := NewSubmissionModel(context.Background(), svc, 1, t.TempDir(), discardLogger())
	m.SetSize(100, 60)
	m.Choose(testDocument(t, "jane.pdf"))

	cmd := m.Update(key("s"))
	if cmd == nil {
		t.Fatal("Expected submit command")
	}
	if !strings.Contains(m.View(), flow.SubmittingText) {
		t.Errorf("Expected %q while submitting", flow.SubmittingText)
	}
	if again := m.Update(key("s")); again != nil {
		t.Errorf("Expected second submit to be ignored while busy")
	}

	m.Update(cmd())

	if m.Flow().Phase() != flow.PhaseReportReady {
		t.Fatalf("Expected report-ready, got %v", m.Flow().Phase())
	}
	view := m.View()
	for _, want := range []string{flow.SuccessText, "Analysis Results", "Jane Doe", "7 / 10", "Add metrics"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
	if svc.submits.Load() != 1 {
		t.Errorf("Expected 1 submit, got %d", svc.submits.Load())
	}
}

func TestSubmissionFailureShowsMessage(t *testing.T) {
	svc := &fakeService{err: &api.RequestError{Op: api.OpSubmit, Reason: "Only PDF files are allowed.", StatusCode: 400}}
	m := NewSubmissionModel(context.Background(), svc, 1, t.TempDir(), discardLogger())
	m.Choose(testDocument(t, "jane.pdf"))

	m.Update(m.Submit()())

	if m.Flow().Phase() != flow.PhaseSubmitFailed {
		t.Fatalf("Expected submit-failed, got %v", m.Flow().Phase())
	}
	if !strings.Contains(m.View(), "Only PDF files are allowed.") {
		t.Errorf("Expected failure reason in view")
	}
}

func TestSubmissionDropsStaleResponses(t *testing.T) {
	svc := &fakeService{record: janeDoe()}
	m := NewSubmissionModel(context.Background(), svc, 1, t.TempDir(), discardLogger())
	_ = m.Choose(testDocument(t, "first.pdf"))
	msg := m.Submit()()

	other := msg.(submitDoneMsg)
	other.instance = 99
	m.Update(other)
	if !m.Flow().Busy() {
		t.Fatalf("Expected a response for another instance to be dropped")
	}

	m.Update(msg)
	if m.Flow().Phase() != flow.PhaseReportReady {
		t.Fatalf("Expected report-ready, got %v", m.Flow().Phase())
	}

	_ = m.Choose(testDocument(t, "second.pdf"))
	m.Update(msg)
	if m.Flow().Phase() != flow.PhaseFileChosen {
		t.Errorf("Expected the old response to be dropped after a new choice, got %v", m.Flow().Phase())
	}
	if m.Flow().Document().Name != "second.pdf" {
		t.Errorf("Expected second.pdf chosen, got %s", m.Flow().Document().Name)
	}
}

func TestSubmissionSingleRequestInFlight(t *testing.T) {
	svc := &fakeService{record: janeDoe()}
	m := NewSubmissionModel(context.Background(), svc, 1, t.TempDir(), discardLogger())

	_ = m.Choose(testDocument(t, "first.pdf"))
	first := m.Submit()
	if first == nil {
		t.Fatal("Expected submit command")
	}

	if err := m.Choose(testDocument(t, "second.pdf")); !errors.Is(err, flow.ErrBusy) {
		t.Errorf("Expected choosing while submitting to be refused, got %v", err)
	}
	if second := m.Submit(); second != nil {
		t.Fatal("Expected no second request while the first is in flight")
	}

	m.Update(first())
	if svc.submits.Load() != 1 {
		t.Errorf("Expected 1 submit, got %d", svc.submits.Load())
	}
	if m.Flow().Document().Name != "first.pdf" {
		t.Errorf("Expected first.pdf to stay chosen, got %s", m.Flow().Document().Name)
	}
	if m.Flow().Phase() != flow.PhaseReportReady {
		t.Errorf("Expected report-ready, got %v", m.Flow().Phase())
	}
}

func TestHistoryEmpty(t *testing.T) {
	m := NewHistoryModel(context.Background(), &fakeService{}, 1, discardLogger())
	cmd := m.Init()
	if !strings.Contains(m.View(), flow.LoadingHistoryText) {
		t.Errorf("Expected %q while loading", flow.LoadingHistoryText)
	}

	m.Update(cmd())

	if !m.Flow().Empty() {
		t.Errorf("Expected empty history")
	}
	if !strings.Contains(m.View(), flow.EmptyHistoryText) {
		t.Errorf("Expected %q in view", flow.EmptyHistoryText)
	}
}

func TestHistoryFailure(t *testing.T) {
	m := NewHistoryModel(context.Background(), &fakeService{err: errors.New("connection refused")}, 1, discardLogger())
	m.Update(m.Init()())

	if !strings.Contains(m.View(), api.HistoryFailedReason) {
		t.Errorf("Expected %q in view, got %s", api.HistoryFailedReason, m.View())
	}
}

func TestHistoryDetailOverlay(t *testing.T) {
	svc := &fakeService{
		list: []api.Summary{
			{ID: "1", Name: "Jane Doe", Filename: "jane.pdf"},
			{ID: "2", Filename: "anon.pdf"},
			{ID: "3", Name: "John Roe"},
		},
		details: map[api.ID]*api.Record{"1": janeDoe()},
	}
	m := NewHistoryModel(context.Background(), svc, 1, discardLogger())
	m.SetSize(100, 60)
	m.Update(m.Init()())

	view := m.View()
	if !strings.Contains(view, flow.UntitledText) {
		t.Errorf("Expected %q for unnamed entry", flow.UntitledText)
	}
	for _, want := range []string{"jane.pdf", "anon.pdf", report.Placeholder} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in history rows, got %s", want, view)
		}
	}
	if strings.Contains(view, "ID: 1") {
		t.Errorf("Expected rows to show the filename, not the id")
	}

	cmd := m.Update(key("enter"))
	if cmd == nil || m.Overlay() == nil {
		t.Fatal("Expected detail overlay to open")
	}
	if !strings.Contains(m.View(), flow.FetchingDetailText) {
		t.Errorf("Expected %q while fetching", flow.FetchingDetailText)
	}

	m.Update(cmd())
	if !strings.Contains(m.View(), "Resume Details: Jane Doe") {
		t.Errorf("Expected detail title in view, got %s", m.View())
	}

	m.Update(key("esc"))
	if m.Overlay() != nil {
		t.Errorf("Expected overlay to close")
	}
	if entries, _ := m.Flow().Entries(); len(entries) != 3 {
		t.Errorf("Expected list unchanged, got %d entries", len(entries))
	}
}

func TestHistoryDropsDismissedDetail(t *testing.T) {
	svc := &fakeService{
		list:    []api.Summary{{ID: "1", Name: "Jane Doe"}, {ID: "2", Name: "John Roe"}},
		details: map[api.ID]*api.Record{"1": janeDoe(), "2": janeDoe()},
	}
	m := NewHistoryModel(context.Background(), svc, 1, discardLogger())
	m.Update(m.Init()())

	first := m.Open(0)
	m.Dismiss()
	m.Update(first())
	if m.Overlay() != nil {
		t.Errorf("Expected late response not to reopen the overlay")
	}

	stale := m.Open(0)
	current := m.Open(1)
	m.Update(stale())
	if !m.Overlay().Loading() {
		t.Errorf("Expected response for replaced overlay to be dropped")
	}
	m.Update(current())
	if m.Overlay().Loading() || m.Overlay().Error() != "" {
		t.Errorf("Expected current overlay to show its record")
	}
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "b.pdf")
	writePDF(t, dir, "a.PDF")
	writePDF(t, dir, ".hidden.pdf")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}

	entries, err := listDir(dir)
	if err != nil {
		t.Fatalf("listDir() error: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.name)
	}
	want := []string{"../", "sub/", "a.PDF", "b.pdf"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, names)
	}
}

func TestPickerChoosesPDF(t *testing.T) {
	dir := t.TempDir()
	writePDF(t, dir, "resume.pdf")

	p := newPicker(1, dir, discardLogger())
	p.Update(p.listCmd()())

	// skip "../"
	p.HandleKey("down")
	doc, _, err := p.HandleKey("enter")
	if err != nil {
		t.Fatalf("HandleKey() error: %v", err)
	}
	if doc == nil || doc.Name != "resume.pdf" {
		t.Errorf("Expected resume.pdf, got %+v", doc)
	}
}

func TestPickerEntersDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}

	p := newPicker(1, dir, discardLogger())
	p.Update(p.listCmd()())
	p.HandleKey("down")
	_, cmd, _ := p.HandleKey("enter")

	if filepath.Base(p.Dir()) != "sub" {
		t.Errorf("Expected to enter sub, got %s", p.Dir())
	}
	if cmd == nil {
		t.Fatal("Expected listing command")
	}
	p.Update(cmd())
	if len(p.entries) != 1 || p.entries[0].name != "../" {
		t.Errorf("Expected only the parent entry, got %+v", p.entries)
	}
}
