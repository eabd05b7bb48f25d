package store

import "errors"

// Validation errors, raised before any network call.
var (
	ErrNoProject       = errors.New("no project selected")
	ErrEmptyName       = errors.New("name is required")
	ErrNoFiles         = errors.New("no files selected")
	ErrInvalidID       = errors.New("invalid id")
	ErrInvalidFormat   = errors.New("invalid export format")
	ErrProjectNotFound = errors.New("project not found")
)
