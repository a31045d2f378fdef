package engine

import "errors"

var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTemplate indicates the requested template exists but failed to
	// load or validate.
	ErrInvalidTemplate = errors.New("invalid template")
)
