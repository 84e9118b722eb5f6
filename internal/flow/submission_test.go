package flow

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/report"
)

func testDoc(t *testing.T, name string) *document.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	doc, err := document.Inspect(path)
	if err != nil {
		t.Fatalf("Inspect() error: %v", err)
	}
	return doc
}

func janeDoe() *api.Record {
	rating := api.Rating(7)
	return &api.Record{
		Name:      "Jane Doe",
		Filename:  "jane.pdf",
		Extracted: api.ExtractedData{Name: "Jane Doe"},
		Feedback:  api.Feedback{Rating: &rating, ImprovementAreas: "Add metrics"},
	}
}

func TestSubmissionInitialState(t *testing.T) {
	s := NewSubmission()

	if s.Phase() != PhaseNoFile {
		t.Errorf("Expected no-file phase, got %s", s.Phase())
	}
	if s.Label() != SubmitLabel {
		t.Errorf("Expected label %q, got %q", SubmitLabel, s.Label())
	}
	if s.FileLabel() != PickPrompt {
		t.Errorf("Expected pick prompt, got %q", s.FileLabel())
	}
	if s.Report() != nil {
		t.Error("Expected no report")
	}
}

func TestSubmitWithoutDocument(t *testing.T) {
	s := NewSubmission()

	ticket, err := s.Begin()
	if ticket != 0 {
		t.Errorf("Expected no ticket, got %d", ticket)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if err.Error() != NoDocumentMessage {
		t.Errorf("Expected %q, got %q", NoDocumentMessage, err.Error())
	}
	if s.Notice() != NoDocumentMessage {
		t.Errorf("Expected notice, got %q", s.Notice())
	}
	if s.Phase() != PhaseNoFile {
		t.Errorf("Expected phase to stay no-file, got %s", s.Phase())
	}
	if s.Error() != "" {
		t.Errorf("Validation must not produce a failure state, got %q", s.Error())
	}
}

func TestSubmissionSuccess(t *testing.T) {
	s := NewSubmission()
	s.Choose(testDoc(t, "jane.pdf"))

	if s.Phase() != PhaseFileChosen {
		t.Fatalf("Expected file-chosen, got %s", s.Phase())
	}
	if s.FileLabel() != "jane.pdf" {
		t.Errorf("Expected file label jane.pdf, got %q", s.FileLabel())
	}

	ticket, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if s.Phase() != PhaseSubmitting || s.Label() != SubmittingText {
		t.Errorf("Expected submitting with %q, got %s / %q", SubmittingText, s.Phase(), s.Label())
	}

	if _, err := s.Begin(); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy while submitting, got %v", err)
	}

	if !s.Resolve(ticket, janeDoe(), nil) {
		t.Fatal("Expected Resolve to apply")
	}
	if s.Phase() != PhaseReportReady {
		t.Fatalf("Expected report-ready, got %s", s.Phase())
	}
	if s.Success() != SuccessText {
		t.Errorf("Expected success banner, got %q", s.Success())
	}
	r := s.Report()
	if r == nil || r.Title != report.ResultTitle() {
		t.Fatalf("Expected result report, got %+v", r)
	}
}

func TestSubmissionFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"request error", &api.RequestError{Op: api.OpSubmit, Reason: "Unsupported file type"}, "Unsupported file type"},
		{"unknown error", errors.New("socket closed"), api.SubmitFailedReason},
		{"nil record", nil, api.SubmitFailedReason},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSubmission()
			s.Choose(testDoc(t, "a.pdf"))
			ticket, _ := s.Begin()

			s.Resolve(ticket, nil, tt.err)

			if s.Phase() != PhaseSubmitFailed {
				t.Fatalf("Expected submit-failed, got %s", s.Phase())
			}
			if s.Error() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, s.Error())
			}
			if _, ok := s.Record(); ok {
				t.Error("Expected no record after failure")
			}
			if s.Success() != "" {
				t.Error("Expected no success banner after failure")
			}
		})
	}
}

func TestSubmitFailedOnlyFromSubmitting(t *testing.T) {
	s := NewSubmission()
	s.Choose(testDoc(t, "a.pdf"))

	// no request issued: nothing to resolve
	if s.Resolve(1, nil, errors.New("boom")) {
		t.Error("Resolve applied without a request in flight")
	}
	if s.Phase() != PhaseFileChosen {
		t.Errorf("Expected file-chosen, got %s", s.Phase())
	}

	ticket, _ := s.Begin()
	s.Resolve(ticket, janeDoe(), nil)
	if s.Resolve(ticket, nil, errors.New("late")) {
		t.Error("Resolve applied twice for the same ticket")
	}
	if s.Phase() != PhaseReportReady {
		t.Errorf("Expected report-ready to stick, got %s", s.Phase())
	}
}

func TestChooseClearsStaleResult(t *testing.T) {
	s := NewSubmission()
	s.Choose(testDoc(t, "first.pdf"))
	ticket, _ := s.Begin()
	s.Resolve(ticket, janeDoe(), nil)

	s.Choose(testDoc(t, "second.pdf"))

	if s.Phase() != PhaseFileChosen {
		t.Errorf("Expected file-chosen, got %s", s.Phase())
	}
	if s.Report() != nil || s.Success() != "" || s.Error() != "" || s.Notice() != "" {
		t.Error("Expected result, banner, error and notice to be cleared")
	}
}

func TestChooseWhileSubmitting(t *testing.T) {
	s := NewSubmission()
	first := testDoc(t, "first.pdf")
	if err := s.Choose(first); err != nil {
		t.Fatalf("Choose() error: %v", err)
	}
	ticket, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin() error: %v", err)
	}

	if err := s.Choose(testDoc(t, "second.pdf")); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if s.Document() != first {
		t.Errorf("Expected first.pdf to stay chosen, got %s", s.Document().Name)
	}
	if _, err := s.Begin(); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected a second Begin to be refused, got %v", err)
	}

	if !s.Resolve(ticket, janeDoe(), nil) {
		t.Fatal("Expected the in-flight response to be applied")
	}
	if s.Phase() != PhaseReportReady {
		t.Errorf("Expected report-ready, got %s", s.Phase())
	}
	if err := s.Choose(testDoc(t, "second.pdf")); err != nil {
		t.Errorf("Expected choosing to work once resolved, got %v", err)
	}
}

func TestStaleTicketAfterNewChoice(t *testing.T) {
	s := NewSubmission()
	_ = s.Choose(testDoc(t, "first.pdf"))
	old, _ := s.Begin()
	s.Resolve(old, nil, errors.New("offline"))

	_ = s.Choose(testDoc(t, "second.pdf"))
	if s.Resolve(old, janeDoe(), nil) {
		t.Error("Stale response was applied")
	}
	if s.Phase() != PhaseFileChosen {
		t.Errorf("Expected file-chosen, got %s", s.Phase())
	}
}

func TestChooseClearsNotice(t *testing.T) {
	s := NewSubmission()
	_, _ = s.Begin()
	s.Choose(testDoc(t, "a.pdf"))
	if s.Notice() != "" {
		t.Errorf("Expected notice cleared, got %q", s.Notice())
	}
}

// runSubmission drives a Submission against a live client the way the
// views do.
func runSubmission(t *testing.T, client *api.Client, s *Submission) {
	t.Helper()
	ticket, err := s.Begin()
	if err != nil {
		return
	}
	rec, err := client.Submit(context.Background(), s.Document())
	s.Resolve(ticket, rec, err)
}

func TestSubmissionUnsupportedFileType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"Unsupported file type"}`)
	}))
	defer server.Close()

	client, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	s := NewSubmission()
	s.Choose(testDoc(t, "cv.pdf"))
	runSubmission(t, client, s)

	if s.Error() != "Unsupported file type" {
		t.Errorf("Expected exactly 'Unsupported file type', got %q", s.Error())
	}
	if s.Report() != nil {
		t.Error("Expected no report")
	}
}

func TestSubmissionWithoutDocumentSkipsNetwork(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	s := NewSubmission()
	runSubmission(t, client, s)

	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Expected no requests, got %d", calls)
	}
	if s.Notice() != NoDocumentMessage {
		t.Errorf("Expected notice, got %q", s.Notice())
	}
}
