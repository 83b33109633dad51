package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("not enough permissions")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrInactive       = errors.New("inactive")
	ErrRegistryFrozen = errors.New("handler registry is frozen")

	ErrTemplateNotFound  = errors.New("template not found")
	ErrModelNotFound     = errors.New("model not found")
	ErrConnectorNotFound = errors.New("connector not found")

	ErrTemplateInactive  = errors.New("template inactive")
	ErrModelInactive     = errors.New("model inactive")
	ErrConnectorInactive = errors.New("connector inactive")

	ErrUnknownHandler     = errors.New("unknown handler")
	ErrDuplicateHandler   = errors.New("duplicate handler")
	ErrConnectorExecution = errors.New("connector execution failed")
	ErrModelExecution     = errors.New("model execution failed")
)

// NotFoundError reports a registry record id with no record behind it.
type NotFoundError struct {
	Kind RecordKind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() []error {
	switch e.Kind {
	case KindTemplate:
		return []error{ErrNotFound, ErrTemplateNotFound}
	case KindModel:
		return []error{ErrNotFound, ErrModelNotFound}
	case KindConnector:
		return []error{ErrNotFound, ErrConnectorNotFound}
	}
	return []error{ErrNotFound}
}

// InactiveError reports a registry record that exists but is disabled.
type InactiveError struct {
	Kind RecordKind
	ID   string
}

func (e *InactiveError) Error() string {
	return fmt.Sprintf("%s %q is inactive", e.Kind, e.ID)
}

func (e *InactiveError) Unwrap() []error {
	switch e.Kind {
	case KindTemplate:
		return []error{ErrInactive, ErrTemplateInactive}
	case KindModel:
		return []error{ErrInactive, ErrModelInactive}
	case KindConnector:
		return []error{ErrInactive, ErrConnectorInactive}
	}
	return []error{ErrInactive}
}

// UnknownHandlerError reports a function name with no registered handler.
type UnknownHandlerError struct {
	Namespace Namespace
	Name      string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("no %s handler registered as %q", e.Namespace, e.Name)
}

func (e *UnknownHandlerError) Unwrap() error { return ErrUnknownHandler }

// DuplicateHandlerError reports a second registration of the same name.
type DuplicateHandlerError struct {
	Namespace Namespace
	Name      string
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("%s handler %q already registered", e.Namespace, e.Name)
}

func (e *DuplicateHandlerError) Unwrap() error { return ErrDuplicateHandler }

// ExecutionError wraps a failure returned by, or a timeout of, a handler call.
type ExecutionError struct {
	Namespace Namespace
	Handler   string
	Timeout   bool
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s handler %q timed out: %v", e.Namespace, e.Handler, e.Err)
	}
	return fmt.Sprintf("%s handler %q failed: %v", e.Namespace, e.Handler, e.Err)
}

func (e *ExecutionError) Unwrap() []error {
	kind := ErrModelExecution
	if e.Namespace == NamespaceConnector {
		kind = ErrConnectorExecution
	}
	return []error{kind, e.Err}
}

// NewExecutionError builds an ExecutionError, marking it as a timeout when
// err is a deadline expiry.
func NewExecutionError(ns Namespace, handler string, err error) *ExecutionError {
	return &ExecutionError{
		Namespace: ns,
		Handler:   handler,
		Timeout:   errors.Is(err, context.DeadlineExceeded),
		Err:       err,
	}
}

// Outcome classifies a dispatch error into one of the Outcome* labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInactive):
		return OutcomeInactive
	case errors.Is(err, ErrUnknownHandler):
		return OutcomeUnknownHandler
	case errors.Is(err, ErrConnectorExecution):
		return OutcomeConnectorError
	case errors.Is(err, ErrModelExecution):
		return OutcomeModelError
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	}
	return OutcomeInternal
}
