package takerr

import (
	"errors"
	"fmt"
)

// Code classifies the ways a bridge run can fail. Every code is fatal:
// the caller reports it and the process exits.
type Code string

const (
	CodeProtocolViolation Code = "PROTOCOL_VIOLATION"
	CodeParse             Code = "PARSE_ERROR"
	CodeStreamClosed      Code = "STREAM_CLOSED"
	CodeAuthFailure       Code = "AUTH_FAILURE"
	CodeOptionMismatch    Code = "OPTION_MISMATCH"
)

// Error is a classified failure with an optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Protocol reports a server reply that does not fit the expected shape.
func Protocol(format string, args ...any) *Error {
	return newError(CodeProtocolViolation, format, args...)
}

// Parse reports malformed notation or a malformed message field.
func Parse(format string, args ...any) *Error {
	return newError(CodeParse, format, args...)
}

// Auth reports a rejected login.
func Auth(format string, args ...any) *Error {
	return newError(CodeAuthFailure, format, args...)
}

// OptionMismatch reports an engine setting that cannot be reconciled
// with what the game requires.
func OptionMismatch(format string, args ...any) *Error {
	return newError(CodeOptionMismatch, format, args...)
}

// StreamClosed reports that one of the two line streams ended. stream
// names the side, "server" or "engine"; cause may be nil for a plain
// end of file.
func StreamClosed(cause error, stream string) *Error {
	return &Error{Code: CodeStreamClosed, Message: stream + " stream closed", Cause: cause}
}

// HasCode reports whether any error in err's chain carries the code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
