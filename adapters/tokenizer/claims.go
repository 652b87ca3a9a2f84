package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the claims carried by a session token. The subject is
// the user's email address.
type SessionClaims struct {
	jwt.RegisteredClaims
}
