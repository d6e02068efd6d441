package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task has the requested id
	ErrTaskNotFound = errors.New("task not found")

	// ErrUnknownDriver is returned for an unsupported STORE_DRIVER value
	ErrUnknownDriver = errors.New("unknown store driver")
)
