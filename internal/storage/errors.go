package storage

import "errors"

var (
	// ErrConflict is returned when attempting to create a resource that already exists.
	ErrConflict = errors.New("resource already exists")

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidSlug is returned for event slugs that are malformed or reserved.
	ErrInvalidSlug = errors.New("invalid event slug")

	// ErrInvalidState is returned for unknown submission states.
	ErrInvalidState = errors.New("invalid submission state")
)
