package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Identity errors
	ErrMsgUnauthenticated = "not signed in"

	// Persistence errors
	ErrMsgMalformedPersistedData = "malformed persisted data"

	// Remote backend errors
	ErrMsgRemoteOperationFailed = "remote operation failed"

	// Validation errors
	ErrMsgValidationFailed = "validation failed"

	// Lookup errors
	ErrMsgItemNotFound   = "cart item not found"
	ErrMsgEntryNotFound  = "wishlist entry not found"
	ErrMsgAlertNotFound  = "price alert not found"
	ErrMsgTicketNotFound = "support ticket not found"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrUnauthenticated is returned when a mutating operation runs without a signed-in identity
	ErrUnauthenticated = errors.New(ErrMsgUnauthenticated)

	// ErrMalformedPersistedData marks a partition that could not be decoded.
	// It is logged by the store and never returned to ledger callers.
	ErrMalformedPersistedData = errors.New(ErrMsgMalformedPersistedData)

	// ErrRemoteOperationFailed wraps every failure reported by the support backend
	ErrRemoteOperationFailed = errors.New(ErrMsgRemoteOperationFailed)

	// ErrValidationFailed is returned for empty targets, subjects, messages etc.
	ErrValidationFailed = errors.New(ErrMsgValidationFailed)

	ErrItemNotFound   = errors.New(ErrMsgItemNotFound)
	ErrEntryNotFound  = errors.New(ErrMsgEntryNotFound)
	ErrAlertNotFound  = errors.New(ErrMsgAlertNotFound)
	ErrTicketNotFound = errors.New(ErrMsgTicketNotFound)
)

// BackendError is the structured error object returned by the remote
// support backend. It never crosses the boundary as a panic.
type BackendError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *BackendError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", ErrMsgRemoteOperationFailed, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrMsgRemoteOperationFailed, e.Message, e.Code)
}

// Unwrap lets errors.Is(err, ErrRemoteOperationFailed) match backend errors
func (e *BackendError) Unwrap() error {
	return ErrRemoteOperationFailed
}

// UserMessage returns the backend-provided message, falling back to a generic one
func (e *BackendError) UserMessage() string {
	if e.Message == "" {
		return ErrMsgRemoteOperationFailed
	}
	return e.Message
}
