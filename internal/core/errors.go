package core

import "errors"

// Error kinds returned by the engines. The API layer maps these to HTTP
// statuses; anything not wrapping one of them is an internal failure and
// must not leak detail to the caller.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
