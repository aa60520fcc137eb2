package service

import "errors"

// Service-level error kinds. Backend errors are always inspected and re-raised
// as one of these at the service boundary, never passed through raw.
var (
	ErrIDRequired = errors.New("id is required")
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	// ErrAttachment marks storage-side failures, including the documented
	// partial-success states (row persisted, attachment missing or stale).
	ErrAttachment         = errors.New("attachment failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
