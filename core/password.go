package core

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// Password is a validated plaintext password. It only exists in memory while
// a request is being handled; at rest users carry a bcrypt hash.
type Password struct {
	value string
}

// ParsePassword validates raw against the length policy.
func ParsePassword(raw string) (Password, error) {
	if len(raw) < MinPasswordLength {
		return Password{}, ErrInvalidPassword
	}
	return Password{value: raw}, nil
}

// Hash derives the bcrypt hash stored in place of the password.
func (p Password) Hash() ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(p.value), bcrypt.DefaultCost)
}

// Matches reports whether the password matches a stored bcrypt hash.
func (p Password) Matches(hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(p.value)) == nil
}
