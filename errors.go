package burrow

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an [Error], per the error kinds a Burrow
// command or backend may report.
type Kind int

const (
	// KindInvalidArgument indicates a required parameter was empty/nil, or
	// a command was issued with an unrecognized backend option key.
	KindInvalidArgument Kind = iota
	// KindInProgress indicates a command was issued while the client's
	// state machine was not Idle.
	KindInProgress
	// KindWouldBlock is informational: more Process/EventRaised work is
	// required before the current command completes. It is not a failure.
	KindWouldBlock
	// KindTimedOut indicates the internal poll reached its configured
	// limit; the current command was canceled.
	KindTimedOut
	// KindServerError indicates the HTTP transport reported a failure, or
	// the JSON response could not be parsed.
	KindServerError
	// KindMemoryExhausted indicates an allocation failed.
	KindMemoryExhausted
	// KindNotFound indicates a named entity (for a singular get/update)
	// does not exist.
	KindNotFound
	// KindInternal indicates a backend-invariant violation.
	KindInternal
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindInProgress:
		return "in-progress"
	case KindWouldBlock:
		return "would-block"
	case KindTimedOut:
		return "timed-out"
	case KindServerError:
		return "server-error"
	case KindMemoryExhausted:
		return "memory-exhausted"
	case KindNotFound:
		return "not-found"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown-kind(%d)", int(k))
	}
}

// Error is the concrete error type returned by every command and backend
// entry point. It carries a [Kind], an optional wrapped cause, and a
// message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Message
}

// Unwrap returns the wrapped cause, for use with [errors.Is]/[errors.As].
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind, so that
// errors.Is(err, &Error{Kind: KindNotFound}) works without matching Message
// or Cause.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// newError constructs an *Error of the given kind, formatting Message like
// fmt.Sprintf when args are supplied.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

var (
	// ErrWouldBlock is the sentinel of kind KindWouldBlock. Backends and
	// the Client's internal state machine use it as control flow (as
	// io.EOF is used by io.Reader), not as a reported failure: Process and
	// EventRaised return it to signal more driver work is required.
	ErrWouldBlock = &Error{Kind: KindWouldBlock, Message: "more process/event-raised work required"}

	// ErrInProgress is returned by every command-issue method when the
	// Client's state machine is not Idle.
	ErrInProgress = &Error{Kind: KindInProgress, Message: "a command is already in progress"}

	// ErrNotFound is returned by singular get/update operations that name a
	// message that does not exist. A singular delete of a missing message
	// succeeds instead.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
)

// IsWouldBlock reports whether err indicates that more driver work
// (Process/EventRaised) is required, rather than a terminal failure.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}
