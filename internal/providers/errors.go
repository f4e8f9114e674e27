package providers

import "errors"

var (
	// ErrNotFound is returned when no provider matches the given id.
	ErrNotFound = errors.New("providers: provider not found")

	// ErrDuplicateEmail is returned when an insert or update collides with
	// the unique email index.
	ErrDuplicateEmail = errors.New("providers: email already exists")
)
