package domain

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Kind is the closed set of failure classes the API can signal.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindApp
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindApp:
		return "app"
	default:
		return "unknown"
	}
}

// KindOf classifies err, looking through wrapped errors.
func KindOf(err error) Kind {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		ae *AppError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &ve):
		return KindValidation
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &ce):
		return KindConflict
	case errors.As(err, &ae):
		return KindApp
	default:
		return KindUnknown
	}
}

// Violation is one failed validation rule.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every rule a request broke, in evaluation order.
type ValidationError struct {
	Violations []Violation
	trace
}

// NewValidationError returns a ValidationError holding violations.
func NewValidationError(violations []Violation) *ValidationError {
	return &ValidationError{Violations: violations, trace: capture()}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "Validation error"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Path + ": " + v.Message
	}
	return "Validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
	trace
}

// NewNotFoundError returns a NotFoundError for resource (e.g. "Todo").
func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource, trace: capture()}
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// ConflictError reports a uniqueness or constraint violation raised by storage.
type ConflictError struct {
	Message string
	Err     error
	trace
}

// NewConflictError wraps a storage constraint failure.
func NewConflictError(err error) *ConflictError {
	return &ConflictError{Message: "Duplicate field value entered", Err: err, trace: capture()}
}

func (e *ConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConflictError) Unwrap() error { return e.Err }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// AppError is any other explicitly classified failure; Status is sent to the client as is.
type AppError struct {
	Status  int
	Message string
	trace
}

// NewAppError returns an AppError with the given status and client-facing message.
func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message, trace: capture()}
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) StatusCode() int { return e.Status }

// StackError attaches a call stack to an unclassified error. Classification is
// unchanged: KindOf looks through it.
type StackError struct {
	Err error
	trace
}

// WithStack records the caller's stack on err.
func WithStack(err error) *StackError {
	return &StackError{Err: err, trace: capture()}
}

func (e *StackError) Error() string { return e.Err.Error() }

func (e *StackError) Unwrap() error { return e.Err }

// trace records where a domain error was created.
type trace struct {
	pcs []uintptr
}

func capture() trace {
	pcs := make([]uintptr, 32)
	// skip runtime.Callers, capture and the constructor
	n := runtime.Callers(3, pcs)
	return trace{pcs: pcs[:n]}
}

// Stack renders the creation stack, one "function\n\tfile:line" entry per frame.
func (t trace) Stack() string {
	if len(t.pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(t.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}
