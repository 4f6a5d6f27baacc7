// Package errors provides the coded application errors shared by every stage of a solve.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeInvalidConfig     Code = "INVALID_CONFIG"
	CodeMalformedInstance Code = "MALFORMED_INSTANCE"
	CodeMalformedCalendar Code = "MALFORMED_CALENDAR"
	CodeSolverStartup     Code = "SOLVER_STARTUP_FAILURE"
	CodeNoModelFound      Code = "NO_MODEL_FOUND"
	CodeIOFailure         Code = "IO_FAILURE"
	CodeScoreOverflow     Code = "SCORE_OVERFLOW"
	CodeMalformedAtom     Code = "MALFORMED_ATOM"
	CodeMalformedRecord   Code = "MALFORMED_RECORD"
)

// AppError is an error tagged with a Code and the context needed to locate its origin
// (instance id, run label, file, line, parameter).
type AppError struct {
	Code    Code
	Message string
	Cause   error
	Fields  map[string]any
}

func (e *AppError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "[%s] %s", e.Code, e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for key := range e.Fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		builder.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				builder.WriteString(", ")
			}
			fmt.Fprintf(&builder, "%s=%v", key, e.Fields[key])
		}
		builder.WriteString(")")
	}

	if e.Cause != nil {
		fmt.Fprintf(&builder, ": %v", e.Cause)
	}
	return builder.String()
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithField attaches a context field. It mutates and returns the receiver.
func (e *AppError) WithField(key string, value any) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// Is reports whether any error in err's chain is an AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// Annotate adds fields to the AppError in err's chain, wrapping foreign errors under CodeUnknown.
func Annotate(err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Wrap(err, CodeUnknown, "unexpected failure")
		err = appErr
	}
	for key, value := range fields {
		if _, ok := appErr.Fields[key]; !ok {
			appErr.WithField(key, value)
		}
	}
	return err
}

func MalformedInstance(source string, line int, reason string) *AppError {
	return Newf(CodeMalformedInstance, "malformed instance: %s", reason).
		WithField("file", source).
		WithField("line", line)
}

func MalformedCalendar(source string, line int, reason string) *AppError {
	return Newf(CodeMalformedCalendar, "malformed calendar: %s", reason).
		WithField("file", source).
		WithField("line", line)
}

func InvalidConfig(parameter string, value any, reason string) *AppError {
	return Newf(CodeInvalidConfig, "invalid parameter %q: %s", parameter, reason).
		WithField("parameter", parameter).
		WithField("value", value)
}

func SolverStartup(cause error, details string) *AppError {
	return Wrap(cause, CodeSolverStartup, "solver rejected the problem").
		WithField("details", details)
}

func NoModelFound(reason string) *AppError {
	return Newf(CodeNoModelFound, "no model found: %s", reason)
}

func IOFailure(cause error, target string) *AppError {
	return Wrap(cause, CodeIOFailure, "cannot persist solve record").
		WithField("target", target)
}
