package service

import "errors"

// Public error taxonomy. All store and codec errors are translated into one
// of these at the service boundary; no internal error type crosses into the
// transport layer.
var (
	ErrBadInput             = errors.New("bad input")
	ErrAlreadyExists        = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrMissingToken         = errors.New("missing token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnexpected           = errors.New("unexpected error")
)
