package model

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide between fallback, absence and surfacing.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindProvider    Kind = "provider_error"
	KindRateLimited Kind = "rate_limited"
	KindTransport   Kind = "transport_fault"
	KindPersistence Kind = "persistence_fault"
	KindValidation  Kind = "validation_fault"
)

// Error is the typed failure returned across package boundaries.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("[%s] %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: [%s] %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fault builds an Error of the given kind wrapping cause.
func Fault(kind Kind, op string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Faultf builds an Error of the given kind with a formatted message.
func Faultf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a valid request for which no instrument exists.
func NotFound(op, symbol string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf("no result for symbol %q", symbol)}
}

// Validation reports a malformed request rejected before any I/O.
func Validation(op, format string, args ...any) *Error {
	return Faultf(KindValidation, op, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
