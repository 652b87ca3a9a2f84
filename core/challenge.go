package core

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// AttemptID identifies a single login attempt awaiting its second factor.
type AttemptID struct {
	value string
}

// ParseAttemptID validates raw as a UUID-form string.
func ParseAttemptID(raw string) (AttemptID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return AttemptID{}, ErrInvalidAttemptID
	}
	return AttemptID{value: id.String()}, nil
}

// NewAttemptID returns a fresh random attempt id.
func NewAttemptID() AttemptID {
	return AttemptID{value: uuid.New().String()}
}

func (id AttemptID) String() string {
	return id.value
}

// CodeLength is the number of digits in a two-factor code.
const CodeLength = 6

// Code is a 6-digit one-time code delivered to the user out of band.
type Code struct {
	value string
}

// ParseCode accepts raw iff it is exactly 6 ASCII digits.
func ParseCode(raw string) (Code, error) {
	if len(raw) != CodeLength {
		return Code{}, ErrInvalidCode
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return Code{}, ErrInvalidCode
		}
	}
	return Code{value: raw}, nil
}

// GenerateCode returns a uniformly random code. Leading zeros are allowed.
func GenerateCode() (Code, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return Code{}, fmt.Errorf("failed to generate code: %w", err)
	}
	return Code{value: fmt.Sprintf("%06d", n.Int64())}, nil
}

func (c Code) String() string {
	return c.value
}

// Challenge is the single active second-factor challenge for an email.
// A new login attempt for the same email replaces it.
type Challenge struct {
	AttemptID AttemptID
	Code      Code
}
