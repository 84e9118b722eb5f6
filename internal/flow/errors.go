package flow

import (
	"errors"

	"github.com/yildizm/ResumeLens/internal/api"
)

// NoDocumentMessage is shown when submit is attempted without a document.
const NoDocumentMessage = "Please select a PDF file to upload."

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("analysis already in progress")

// ValidationError is a local precondition failure. It never reaches the
// network.
type ValidationError struct {
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// failureReason is the display text for a failed request. A response with
// neither a result nor an error gets the operation's generic reason.
func failureReason(op api.Op, err error) string {
	if err == nil {
		return api.GenericReason(op)
	}
	return api.Message(op, err)
}
