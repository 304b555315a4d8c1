package services

import "errors"

// Failure kinds shared by both backends. Handlers map these onto HTTP status
// codes; everything else is reported as a plain backend failure.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrNotAuthenticated   = errors.New("missing session")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConfiguration      = errors.New("configuration error")
)
