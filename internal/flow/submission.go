package flow

import (
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/report"
)

// Submission texts
const (
	SubmitLabel    = "Analyze Resume"
	SubmittingText = "Analyzing resume..."
	SuccessText    = "Analysis complete! See results below."
	PickPrompt     = "Click to select a PDF file"
)

// Phase is the coarse position of a Submission.
type Phase int

const (
	PhaseNoFile Phase = iota
	PhaseFileChosen
	PhaseSubmitting
	PhaseReportReady
	PhaseSubmitFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseNoFile:
		return "no-file"
	case PhaseFileChosen:
		return "file-chosen"
	case PhaseSubmitting:
		return "submitting"
	case PhaseReportReady:
		return "report-ready"
	case PhaseSubmitFailed:
		return "submit-failed"
	default:
		return "unknown"
	}
}

// Submission tracks one document from selection to rendered report. The
// chosen document is orthogonal to the request state.
type Submission struct {
	doc    *document.Document
	state  State[*api.Record]
	gate   gate
	notice string
}

// NewSubmission returns a submission with no document chosen
func NewSubmission() *Submission {
	return &Submission{state: Idle[*api.Record]{}}
}

// Choose selects doc, discarding any previous result, error or notice.
// The document cannot change while a submission is in flight.
func (s *Submission) Choose(doc *document.Document) error {
	if IsLoading(s.state) {
		return ErrBusy
	}
	s.doc = doc
	s.state = Idle[*api.Record]{}
	s.notice = ""
	s.gate.invalidate()
	return nil
}

// Begin starts a submission and returns the ticket its response must carry.
func (s *Submission) Begin() (Ticket, error) {
	if IsLoading(s.state) {
		return 0, ErrBusy
	}
	if s.doc == nil {
		s.notice = NoDocumentMessage
		return 0, &ValidationError{Message: NoDocumentMessage}
	}

	s.notice = ""
	t := s.gate.issue()
	s.state = Loading[*api.Record]{Ticket: t}
	return t, nil
}

// Resolve applies the outcome of the request identified by t. Stale
// tickets are dropped and Resolve reports false.
func (s *Submission) Resolve(t Ticket, rec *api.Record, err error) bool {
	if !s.gate.accepts(t) || !IsLoading(s.state) {
		return false
	}

	if err != nil || rec == nil {
		s.state = Fail[*api.Record](failureReason(api.OpSubmit, err))
		return true
	}
	s.state = Loaded[*api.Record]{Data: rec}
	return true
}

// Document returns the chosen document, or nil
func (s *Submission) Document() *document.Document {
	return s.doc
}

// State returns the request state
func (s *Submission) State() State[*api.Record] {
	return s.state
}

// Phase derives the coarse phase from document and state.
func (s *Submission) Phase() Phase {
	switch s.state.(type) {
	case Loading[*api.Record]:
		return PhaseSubmitting
	case Loaded[*api.Record]:
		return PhaseReportReady
	case Failed[*api.Record]:
		return PhaseSubmitFailed
	}
	if s.doc == nil {
		return PhaseNoFile
	}
	return PhaseFileChosen
}

// Busy reports whether a submission is in flight
func (s *Submission) Busy() bool {
	return IsLoading(s.state)
}

// Notice returns the local validation message, if any
func (s *Submission) Notice() string {
	return s.notice
}

// Error returns the failure message in SubmitFailed, otherwise "".
func (s *Submission) Error() string {
	return FailureMessage(s.state)
}

// Success returns the success banner in ReportReady, otherwise "".
func (s *Submission) Success() string {
	if s.Phase() == PhaseReportReady {
		return SuccessText
	}
	return ""
}

// Record returns the analysis in ReportReady
func (s *Submission) Record() (*api.Record, bool) {
	return Data(s.state)
}

// Report renders the analysis; nil outside ReportReady.
func (s *Submission) Report() *report.Report {
	rec, ok := s.Record()
	if !ok {
		return nil
	}
	return report.Build(report.ResultTitle(), rec)
}

// Label is the text of the submit control.
func (s *Submission) Label() string {
	if s.Busy() {
		return SubmittingText
	}
	return SubmitLabel
}

// FileLabel names the chosen document or prompts for one.
func (s *Submission) FileLabel() string {
	if s.doc == nil {
		return PickPrompt
	}
	return s.doc.Name
}
