package tokenizer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

const AudienceSession = "auth:session"

// DefaultSessionTTL is the default lifetime of a session token
const DefaultSessionTTL = 10 * time.Minute

// JWTTokenizer implements the Tokenizer interface using ES256 JWTs. It holds
// the banned token store because revocation is part of verification: a
// signature check alone is never sufficient for authorization.
type JWTTokenizer struct {
	signKey *ecdsa.PrivateKey
	banned  ports.BannedTokenStore
	ttl     time.Duration
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(signKey *ecdsa.PrivateKey, banned ports.BannedTokenStore, ttl time.Duration) ports.Tokenizer {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &JWTTokenizer{signKey: signKey, banned: banned, ttl: ttl}
}

// Issue signs a session token for the email address
func (j *JWTTokenizer) Issue(email core.Email) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email.String(),
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signedToken, err := token.SignedString(j.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// Verify validates a session token and returns the session it asserts.
// Revocation is keyed by the raw token string and checked before any claim
// is trusted.
func (j *JWTTokenizer) Verify(ctx context.Context, tokenStr string) (*core.Session, error) {
	banned, err := j.banned.IsBanned(ctx, tokenStr)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if banned {
		return nil, core.ErrTokenRevoked
	}

	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &j.signKey.PublicKey, nil
	}, jwt.WithAudience(AudienceSession), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, core.ErrInvalidToken
	}

	// Validate token
	if !token.Valid {
		return nil, core.ErrInvalidToken
	}

	// Extract claims
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, core.ErrInvalidToken
	}

	session := &core.Session{
		ID:        claims.ID,
		Email:     claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}

	return session, nil
}
