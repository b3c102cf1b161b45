package domain

import (
	"errors"
	"fmt"
)

// Error wraps a planning failure with a stable Code and a structured
// Details payload so callers can render §7's error record without
// string-parsing the message.
type Error struct {
	orig    error
	msg     string
	code    error
	details map[string]interface{}
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s", e.msg)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

func (e *Error) Code() error {
	return e.code
}

// Details returns the structured context for this error (field/value,
// unreachable node IDs, conflicting channels, ...). Never nil.
func (e *Error) Details() map[string]interface{} {
	if e.details == nil {
		return map[string]interface{}{}
	}
	return e.details
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

// WrapErrorDetails is WrapErrorf plus a structured details map, used by
// the planner core to carry §7's per-kind detail fields.
func WrapErrorDetails(orig error, code error, details map[string]interface{}, format string, a ...interface{}) error {
	return &Error{
		code:    code,
		orig:    orig,
		msg:     fmt.Sprintf(format, a...),
		details: details,
	}
}

var (
	// ErrInternalServerError will throw if any unexpected internal error happens.
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item does not exist.
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrConflict will throw if the current action already exists.
	ErrConflict = errors.New("your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid.
	ErrBadParamInput = errors.New("given Param is not valid")

	// ErrInvalidInput: §4.1 semantic validation failed (field, value, requirement in Details).
	ErrInvalidInput = errors.New("invalid input")
	// ErrTopologyUnreachable: §4.3 generator could not connect every node under constraints.
	ErrTopologyUnreachable = errors.New("topology unreachable")
	// ErrChannelAssignment: §4.4 assigner exhausted every candidate for a (node, band).
	ErrChannelAssignment = errors.New("channel assignment failed")
	// ErrInternalInvariant: a post-condition check detected an inconsistency.
	ErrInternalInvariant = errors.New("internal invariant violated")
)

var MessageInternalServerError string = "internal server error"
