// Package errors carries the service error taxonomy. Handlers only ever see
// two kinds: NotFound for keyed lookups that matched no row, and Database for
// anything the gateway reports.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard error functions
var (
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

const (
	KindNotFound = "NotFound"
	KindDatabase = "DatabaseError"
)

var (
	NotFound = NewWithKind(KindNotFound).Explain("resource not found")
	Database = NewWithKind(KindDatabase).Explain("internal database error")
)

// Error is a custom error type for passing more information
type Error struct {
	// Kind is the returned error type
	Kind string `json:"kind"`
	// Message is the human readable string that indicate the error
	Message string `json:"message"`
	// Code classifies the underlying cause. It is meant for logs, never for clients.
	Code string `json:"-"`

	cause error
}

var _ error = (*Error)(nil)

func New(message string) *Error {
	return &Error{Kind: "Unknown", Message: message}
}

func NewWithKind(kind string) *Error {
	return &Error{Kind: kind}
}

func Wrap(err error) *Error {
	return &Error{cause: err}
}

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s] ", e.Kind)
	if e.Message != "" {
		str += e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap returns a copy of the error with the cause set
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// Explain makes a copy of the error with given message
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

// WithCode returns a copy of the error tagged with a classification code.
func (e *Error) WithCode(code string) *Error {
	err := *e
	err.Code = code
	return &err
}

// Cause returns the message of the wrapped error, or the error's own
// message when nothing is wrapped.
func (e *Error) Cause() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Message
}

// Is implements the needed interface for errors.Is
// It checks kind for equality
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	if e.cause != nil {
		return Is(e.cause, target)
	}
	return false
}

// StatusCode maps an error onto the HTTP status the API reports for it.
func StatusCode(err error) int {
	var e *Error
	if As(err, &e) && e.Kind == KindNotFound {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
