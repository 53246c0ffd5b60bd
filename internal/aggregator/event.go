package aggregator

import "errors"

// FailureMessage is the only text a user sees when a search fails
const FailureMessage = "Failed to search for pricing information. Please try again."

var (
	// ErrEmptyQuery is returned for blank queries; no events are emitted
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrSearchFailed matches any *SearchError via errors.Is
	ErrSearchFailed = errors.New("search failed")
)

// SearchError collapses every provider failure into one user-facing error.
// The cause stays reachable through Unwrap for logs.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string { return FailureMessage }

func (e *SearchError) Unwrap() error { return e.Err }

func (e *SearchError) Is(target error) bool { return target == ErrSearchFailed }

// EventKind identifies a search lifecycle notification
type EventKind int

const (
	EventStarted EventKind = iota
	EventSucceeded
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is pushed to the Sink as a search progresses.
// Results is set for EventSucceeded, Message for EventFailed.
type Event struct {
	Kind      EventKind
	RequestID uint64
	Query     string
	Results   []SearchResult
	Message   string
}

// Sink receives search events. It may be called from any goroutine.
type Sink func(Event)
