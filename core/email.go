package core

import (
	"net/mail"
	"strings"
)

// Email is a validated email address. The zero value is invalid; construct
// one with ParseEmail.
type Email struct {
	value string
}

// ParseEmail validates raw as a bare email address and normalizes it to
// lower case. Display-name forms ("Bob <bob@x.com>") are rejected.
func ParseEmail(raw string) (Email, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: strings.ToLower(raw)}, nil
}

func (e Email) String() string {
	return e.value
}

// IsZero reports whether the email was never parsed.
func (e Email) IsZero() bool {
	return e.value == ""
}
