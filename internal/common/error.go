package common

import (
	"errors"
	"fmt"
)

// ProvisionError is the typed failure returned by both provisioning paths.
//
// Kind is one of ErrValidation, ErrDuplicate, ErrTransport or ErrStorage and is
// what errors.Is matches against. Field names the offending input when it is
// known. StatusCode and Body are only set for failures reported by the Hub.
type ProvisionError struct {
	Kind       error
	Field      string
	Message    string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProvisionError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause (database or network error).
func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the failure kind of e.
func (e *ProvisionError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// NewValidationError builds a validation failure for field.
func NewValidationError(field, message string) *ProvisionError {
	return &ProvisionError{Kind: ErrValidation, Field: field, Message: message}
}

// NewDuplicateError builds a duplicate failure. field may be empty when the
// conflicting column could not be determined.
func NewDuplicateError(field, message string, err error) *ProvisionError {
	return &ProvisionError{Kind: ErrDuplicate, Field: field, Message: message, Err: err}
}

// NewTransportError builds a failure for the remote path.
func NewTransportError(message string, status int, body string, err error) *ProvisionError {
	return &ProvisionError{Kind: ErrTransport, Message: message, StatusCode: status, Body: body, Err: err}
}

// NewStorageError wraps a database failure from the direct path.
func NewStorageError(message string, err error) *ProvisionError {
	return &ProvisionError{Kind: ErrStorage, Message: message, Err: err}
}

// AsProvisionError returns the *ProvisionError in err's chain, if any.
func AsProvisionError(err error) (*ProvisionError, bool) {
	var pe *ProvisionError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
