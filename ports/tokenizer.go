package ports

import (
	"context"

	"github.com/layer-3/warden/core"
)

// Tokenizer mints and verifies signed session tokens
type Tokenizer interface {
	// Issue signs a session token asserting the email address.
	Issue(email core.Email) (string, error)

	// Verify validates the token's structure, signature and expiry, and
	// consults the revocation set: a banned token fails with
	// core.ErrTokenRevoked regardless of how valid the rest of it is.
	Verify(ctx context.Context, token string) (*core.Session, error)
}
