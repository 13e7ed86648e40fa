package flow

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
var (
	ErrValidation     = errors.New("validation")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not_found")
	ErrBadCredentials = errors.New("bad_credentials")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrPersistence    = errors.New("persistence")
)
