package flow

import (
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/report"
)

// FetchingDetailText is shown while a detail overlay loads.
const FetchingDetailText = "Fetching details..."

// Detail is the overlay showing one stored analysis.
type Detail struct {
	id        api.ID
	state     State[*api.Record]
	gate      gate
	dismissed bool
}

// NewDetail returns an overlay for id that has not started loading
func NewDetail(id api.ID) *Detail {
	return &Detail{id: id, state: Idle[*api.Record]{}}
}

// ID returns the record this overlay shows
func (d *Detail) ID() api.ID {
	return d.id
}

// Begin enters Loading and returns the ticket of the fetch.
func (d *Detail) Begin() Ticket {
	t := d.gate.issue()
	d.state = Loading[*api.Record]{Ticket: t}
	return t
}

// Resolve applies the fetch outcome unless the overlay was dismissed.
func (d *Detail) Resolve(t Ticket, rec *api.Record, err error) bool {
	if d.dismissed || !d.gate.accepts(t) || !IsLoading(d.state) {
		return false
	}
	if err != nil || rec == nil {
		d.state = Fail[*api.Record](failureReason(api.OpDetail, err))
		return true
	}
	d.state = Loaded[*api.Record]{Data: rec}
	return true
}

// Dismiss closes the overlay. It is valid in every state and does not
// cancel an in-flight fetch; the late result is dropped by Resolve.
func (d *Detail) Dismiss() {
	d.dismissed = true
	d.gate.invalidate()
}

// Dismissed reports whether Dismiss was called
func (d *Detail) Dismissed() bool {
	return d.dismissed
}

// State returns the load state
func (d *Detail) State() State[*api.Record] {
	return d.state
}

// Loading reports whether the fetch is in flight
func (d *Detail) Loading() bool {
	return IsLoading(d.state)
}

// Error returns the failure message, or ""
func (d *Detail) Error() string {
	return FailureMessage(d.state)
}

// Report renders the record once shown; nil otherwise.
func (d *Detail) Report() *report.Report {
	rec, ok := Data(d.state)
	if !ok {
		return nil
	}
	return report.Build(report.DetailTitle(rec), rec)
}
