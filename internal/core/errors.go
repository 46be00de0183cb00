package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a tool call failed.
type ErrorKind string

const (
	ErrorKindNone       ErrorKind = ""
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindRemote     ErrorKind = "remote"
	ErrorKindNotFound   ErrorKind = "not_found"
)

// ParseErrorKind accepts the string form used in query filters.
func ParseErrorKind(raw string) (ErrorKind, error) {
	switch ErrorKind(raw) {
	case ErrorKindValidation, ErrorKindRemote, ErrorKindNotFound:
		return ErrorKind(raw), nil
	default:
		return ErrorKindNone, fmt.Errorf("invalid error kind %q (valid: validation, remote, not_found)", raw)
	}
}

// ToolError carries a failure through a handler until it is rendered.
// Action is the gerund phrase used for remote failures ("getting balance").
type ToolError struct {
	Kind    ErrorKind
	Action  string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Kind == ErrorKindRemote && e.Action != "" {
		return "Error " + e.Action + ": " + e.Message
	}
	return e.Message
}

func (e *ToolError) Unwrap() error { return e.Err }

// ErrorCode implements CodedError.
func (e *ToolError) ErrorCode() string { return string(e.Kind) }

// ValidationError builds a validation-kind ToolError.
func ValidationError(format string, args ...any) *ToolError {
	return &ToolError{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError builds a not-found ToolError.
func NotFoundError(format string, args ...any) *ToolError {
	return &ToolError{Kind: ErrorKindNotFound, Message: fmt.Sprintf(format, args...)}
}

// RemoteError wraps err as a remote-kind failure of action.
func RemoteError(action string, err error) *ToolError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &ToolError{Kind: ErrorKindRemote, Action: action, Message: msg, Err: err}
}

// FailureFromError renders err as a failed ToolResult. Errors that are not
// ToolErrors are treated as remote failures of action.
func FailureFromError(action string, err error) *ToolResult {
	var te *ToolError
	if !errors.As(err, &te) {
		te = RemoteError(action, err)
	}
	if te.Kind == ErrorKindRemote && te.Action == "" {
		te = &ToolError{Kind: te.Kind, Action: action, Message: te.Message, Err: te.Err}
	}
	return NewKindFailure(te.Kind, te.Error())
}
