package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so the transport layer can map them
// to a response without inspecting message text.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindInvalidState ErrorKind = "invalid_state"
	KindInternal     ErrorKind = "internal"
)

// Error is the domain error type carried across all core operations.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an absent referenced entity.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

// NewUnauthorizedError reports a caller without rights over the target resource.
func NewUnauthorizedError(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NewForbiddenError reports a caller whose role does not permit the operation.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewConflictError reports a state conflict such as an availability clash.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewInvalidStateError reports an illegal lifecycle transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewInternalError wraps an unexpected collaborator failure.
func NewInternalError(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf returns the kind of a domain error, or KindInternal for any
// error that is not a *Error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
