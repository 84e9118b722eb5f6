package flow

import (
	"strings"

	"github.com/yildizm/ResumeLens/internal/api"
)

// History texts
const (
	LoadingHistoryText = "Loading history..."
	EmptyHistoryText   = "No analysis history found."
	UntitledText       = "Untitled Resume"
	ViewDetailsLabel   = "View Details"
)

// History is the list of past analyses. It loads once per activation.
type History struct {
	state State[[]api.Summary]
	gate  gate
}

// NewHistory returns a history that has not started loading
func NewHistory() *History {
	return &History{state: Idle[[]api.Summary]{}}
}

// Begin enters Loading and returns the ticket of the listing request.
func (h *History) Begin() Ticket {
	t := h.gate.issue()
	h.state = Loading[[]api.Summary]{Ticket: t}
	return t
}

// Resolve applies the listing outcome. An empty list is a valid result.
func (h *History) Resolve(t Ticket, list []api.Summary, err error) bool {
	if !h.gate.accepts(t) || !IsLoading(h.state) {
		return false
	}
	if err != nil {
		h.state = Fail[[]api.Summary](failureReason(api.OpHistory, err))
		return true
	}
	if list == nil {
		list = []api.Summary{}
	}
	h.state = Loaded[[]api.Summary]{Data: list}
	return true
}

// State returns the load state
func (h *History) State() State[[]api.Summary] {
	return h.state
}

// Entries returns the loaded summaries in service order
func (h *History) Entries() ([]api.Summary, bool) {
	return Data(h.state)
}

// Empty reports whether the history loaded with no entries
func (h *History) Empty() bool {
	list, ok := h.Entries()
	return ok && len(list) == 0
}

// Loading reports whether the listing is in flight
func (h *History) Loading() bool {
	return IsLoading(h.state)
}

// Error returns the failure message, or ""
func (h *History) Error() string {
	return FailureMessage(h.state)
}

// Select returns the id of entry i for a detail overlay. The list itself
// does not change.
func (h *History) Select(i int) (api.ID, bool) {
	list, ok := h.Entries()
	if !ok || i < 0 || i >= len(list) {
		return "", false
	}
	return list[i].ID, true
}

// EntryTitle is the display name of a history entry.
func EntryTitle(s api.Summary) string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	return UntitledText
}
