package api

import (
	"encoding/json"
	"errors"
	"strings"
)

// Op names the client operation that failed
type Op string

const (
	// OpSubmit is the document upload
	OpSubmit Op = "submit"

	// OpHistory is the history listing
	OpHistory Op = "history"

	// OpDetail is the single record fetch
	OpDetail Op = "detail"
)

// Generic reasons shown when the service does not supply one.
const (
	SubmitFailedReason  = "An unexpected error occurred. Please try again."
	HistoryFailedReason = "Failed to fetch resume history."
	DetailFailedReason  = "Failed to load resume details."
)

// GenericReason returns the fallback message for op.
func GenericReason(op Op) string {
	switch op {
	case OpSubmit:
		return SubmitFailedReason
	case OpHistory:
		return HistoryFailedReason
	case OpDetail:
		return DetailFailedReason
	default:
		return "Request failed."
	}
}

// RequestError is returned for transport failures, non-success responses
// and unusable response bodies. Error() is safe to show to the user.
type RequestError struct {
	// Op is the operation that failed
	Op Op `json:"op"`

	// Reason is the human-readable message: the service's detail when it
	// sent one, otherwise a generic message for Op
	Reason string `json:"reason"`

	// StatusCode is 0 for transport failures
	StatusCode int `json:"status_code,omitempty"`

	// RequestID is the X-Request-Id sent with the request
	RequestID string `json:"request_id,omitempty"`

	// Underlying error that caused this error
	Cause error `json:"-"`
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Reason == "" {
		return GenericReason(e.Op)
	}
	return e.Reason
}

// Unwrap returns the underlying error
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Is matches another RequestError for the same operation
func (e *RequestError) Is(target error) bool {
	if re, ok := target.(*RequestError); ok {
		return re.Op == "" || re.Op == e.Op
	}
	return false
}

// Transport reports whether the request never produced an HTTP response
func (e *RequestError) Transport() bool {
	return e.StatusCode == 0
}

func newRequestError(op Op, reason string, status int, cause error) *RequestError {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = GenericReason(op)
	}
	return &RequestError{
		Op:         op,
		Reason:     reason,
		StatusCode: status,
		Cause:      cause,
	}
}

// Message translates any error from this package into the text a view
// should display. Unknown errors get the generic reason for op.
func Message(op Op, err error) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Error()
	}
	return GenericReason(op)
}

// detailFromBody extracts the service's {"detail": "..."} message. FastAPI
// validation errors put a list there; those are not user-facing text.
func detailFromBody(body []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
