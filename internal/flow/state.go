// Package flow holds the presentation state machines behind the submission,
// history and detail views. Nothing here touches the terminal or the
// network; callers perform requests and feed the outcome back in.
package flow

// FallbackMessage is used when a failure arrives without any text.
const FallbackMessage = "Something went wrong."

// Ticket identifies one request issued by a view. A response is applied
// only while its ticket is still the view's current one.
type Ticket uint64

// State is the load state of a view. Exactly one variant holds at a time:
// Idle, Loading, Loaded or Failed.
type State[T any] interface {
	sealed(T)
}

// Idle means nothing has been requested yet
type Idle[T any] struct{}

// Loading means a request is in flight
type Loading[T any] struct {
	Ticket Ticket
}

// Loaded carries a successful result
type Loaded[T any] struct {
	Data T
}

// Failed carries a message fit for display. Build it with Fail.
type Failed[T any] struct {
	Message string
}

func (Idle[T]) sealed(T)    {}
func (Loading[T]) sealed(T) {}
func (Loaded[T]) sealed(T)  {}
func (Failed[T]) sealed(T)  {}

// Fail builds a Failed state, never with an empty message.
func Fail[T any](message string) Failed[T] {
	if message == "" {
		message = FallbackMessage
	}
	return Failed[T]{Message: message}
}

// IsLoading reports whether s is Loading
func IsLoading[T any](s State[T]) bool {
	_, ok := s.(Loading[T])
	return ok
}

// FailureMessage returns the message of a Failed state, or "".
func FailureMessage[T any](s State[T]) string {
	if f, ok := s.(Failed[T]); ok {
		return f.Message
	}
	return ""
}

// Data returns the payload of a Loaded state.
func Data[T any](s State[T]) (T, bool) {
	if l, ok := s.(Loaded[T]); ok {
		return l.Data, true
	}
	var zero T
	return zero, false
}

// gate hands out tickets and remembers which one is current.
type gate struct {
	current Ticket
}

func (g *gate) issue() Ticket {
	g.current++
	return g.current
}

// invalidate makes every outstanding ticket stale
func (g *gate) invalidate() {
	g.current++
}

func (g *gate) accepts(t Ticket) bool {
	return t != 0 && t == g.current
}
