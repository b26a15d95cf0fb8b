package services

import (
	"errors"

	"github.com/stwalsh4118/leasebook/internal/repository"
)

// Service-level errors. Callers match them with errors.Is.
var (
	// ErrNotFound is returned by mutations that target an absent id.
	// Lookups return nil instead.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned when an operation names a related
	// entity (lease, unit, property, tenant) that does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrInvalidState is returned when the request conflicts with current state,
	// such as a second active lease on one unit or a negative rent share.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidInput is returned for malformed arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConstraintViolation is a store integrity failure.
	ErrConstraintViolation = repository.ErrConstraintViolation
)
