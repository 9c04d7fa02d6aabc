package dispatch

import "github.com/eventgate-io/eventgate-go/pkg/handler"

// Mode controls how the dispatcher treats events no trigger matches.
type Mode int

const (
	// Strict reports an unmatched event as an Unrouted failure.
	Strict Mode = iota

	// BestEffort turns an unmatched event into a no-op success with an
	// empty payload; the connector decides how to surface it.
	BestEffort
)

// Status is the terminal state of a dispatch.
type Status int

const (
	// StatusCompleted means the handler ran and produced a result.
	StatusCompleted Status = iota

	// StatusUnrouted means no trigger matched the event (Strict mode).
	StatusUnrouted

	// StatusConfigError means a route matched but its handler is not
	// registered. Always surfaced, regardless of mode: it signals a
	// deployment mismatch between routing config and registered handlers.
	StatusConfigError

	// StatusRejected means the handler's input validation refused the
	// payload; the handler was never invoked.
	StatusRejected

	// StatusFailed means the handler returned an error or panicked inside
	// the fault boundary.
	StatusFailed
)

// String returns the stable wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusUnrouted:
		return "unrouted"
	case StatusConfigError:
		return "configuration-error"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Error kinds reported in ErrorDetail.Kind.
const (
	KindUnrouted   = "unrouted"
	KindConfig     = "configuration"
	KindValidation = "validation"
	KindInternal   = "internal"
)

// ErrorDetail carries structured failure information in a Result. Raw
// errors never cross back into a connector.
type ErrorDetail struct {
	// Kind classifies the failure (unrouted, configuration, validation,
	// internal).
	Kind string `json:"kind"`
	// Operation names the handler operation that failed, when known.
	Operation string `json:"operation,omitempty"`
	// Message carries the original failure text.
	Message string `json:"message"`
}

// Result is the structured outcome of one dispatch. Connectors translate
// it into their own transport semantics (HTTP status, dead-letter, ack).
type Result struct {
	// Status is the terminal state.
	Status Status

	// Process is the matched process name, empty when unrouted.
	Process string

	// Matched reports whether any trigger matched. A BestEffort no-op
	// completes successfully with Matched=false.
	Matched bool

	// Output is the handler's result payload on completion.
	Output handler.Payload

	// ForwardTo is the response destination declared by the matched
	// trigger, when any. Delivering there is the connector's job.
	ForwardTo string

	// Err holds structured failure detail for non-completed statuses.
	Err *ErrorDetail
}

// Succeeded reports whether the dispatch reached StatusCompleted.
func (r Result) Succeeded() bool {
	return r.Status == StatusCompleted
}
