package core

import "errors"

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidPassword  = errors.New("password too short")
	ErrInvalidAttemptID = errors.New("invalid login attempt id")
	ErrInvalidCode      = errors.New("invalid two-factor code")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrChallengeNotFound = errors.New("challenge not found")
	ErrChallengeMismatch = errors.New("challenge mismatch")

	ErrTokenExpired = errors.New("token has expired")
	ErrTokenRevoked = errors.New("token has been revoked")
	ErrInvalidToken = errors.New("invalid token")
)
