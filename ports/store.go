package ports

import (
	"context"

	"github.com/layer-3/warden/core"
)

// UserStore persists user credentials keyed by email address.
type UserStore interface {
	// Add inserts a new user. It fails with core.ErrUserAlreadyExists if a
	// user with the same email is already present; it never overwrites.
	Add(ctx context.Context, user core.User) error

	// Get returns the user for the email, or core.ErrUserNotFound.
	Get(ctx context.Context, email core.Email) (core.User, error)

	// Validate checks the password against the stored credential. It fails
	// with core.ErrUserNotFound or core.ErrInvalidCredentials.
	Validate(ctx context.Context, email core.Email, password core.Password) error
}

// BannedTokenStore tracks session tokens that must never be accepted again,
// keyed by the raw token string.
type BannedTokenStore interface {
	// Add inserts a token into the revocation set. Re-adding an already
	// banned token is redundant, not an error.
	Add(ctx context.Context, token string) error

	// IsBanned reports whether the exact token string has been revoked.
	IsBanned(ctx context.Context, token string) (bool, error)
}

// ChallengeStore holds at most one active second-factor challenge per email.
type ChallengeStore interface {
	// Upsert replaces any existing challenge for the email, invalidating it.
	Upsert(ctx context.Context, email core.Email, challenge core.Challenge) error

	// Get returns the active challenge, or core.ErrChallengeNotFound.
	Get(ctx context.Context, email core.Email) (core.Challenge, error)

	// Remove deletes the active challenge, or fails with
	// core.ErrChallengeNotFound if there is nothing to remove.
	Remove(ctx context.Context, email core.Email) error

	// Redeem compares the attempt id and code against the stored challenge
	// and removes it on an exact match, as one atomic step. On mismatch of
	// either field it fails with core.ErrChallengeMismatch and leaves the
	// challenge in place; if no challenge exists it fails with
	// core.ErrChallengeNotFound.
	Redeem(ctx context.Context, email core.Email, attemptID core.AttemptID, code core.Code) error
}
