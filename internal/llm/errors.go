package llm

import (
	"errors"
	"fmt"
)

// ErrorKind separates caller mistakes from upstream failures.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the only error shape the gateway hands to the HTTP boundary.
type Error struct {
	Kind ErrorKind
	// Safe, human-readable reason for the client
	Message string
	// Original error for internal logging
	Log error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Log
}

// ValidationError reports a request that is missing required data.
// It is always raised before any network call.
func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// TransportError reports an upstream that could not be reached, answered
// with a non-success status, or returned an unusable payload.
func TransportError(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Message: msg, Log: err}
}

func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindValidation
}

func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}
