package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSchemaMissing indicates the remote store does not have the expected relation.
	ErrSchemaMissing = errors.New("schema missing")
	// ErrValidation wraps input errors caught before any network call.
	ErrValidation = errors.New("validation failed")
)
