// Package common defines shared sentinel errors used across the provisioning
// paths and the CLI. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Provisioning failure kinds. A *ProvisionError matches exactly one of them.
	ErrValidation = errors.New("validation error")
	ErrDuplicate  = errors.New("already registered")
	ErrTransport  = errors.New("transport error")
	ErrStorage    = errors.New("storage error")

	// CLI errors (bad flag combinations).
	ErrUsage = errors.New("usage error")
)

// Field names reported on validation and duplicate failures.
const (
	FieldIdentifier = "identifier"
	FieldUsername   = "username"
	FieldPassword   = "password"
)
