package services

import "errors"

// Error taxonomy shared by the scoring and commission pipelines.
// Controllers map these onto HTTP statuses: ErrInvalidArgument -> 400,
// ErrNotFound -> 404, ErrInvalidConfiguration and everything else -> 500.
// Validation errors are raised before any side effect.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotFound             = errors.New("not found")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
