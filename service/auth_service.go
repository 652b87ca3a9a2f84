package service

import (
	"context"
	"errors"
	"log"

	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

// TwoFactorSubject is the subject line used for second-factor codes
const TwoFactorSubject = "Verification Code"

// TwoFactorChallenge is returned when login requires a second factor. The
// code itself is delivered out of band and never returned to the caller.
type TwoFactorChallenge struct {
	Message   string
	AttemptID core.AttemptID
}

// LoginResult carries either a session token or a pending second-factor
// challenge, never both.
type LoginResult struct {
	Token     string
	TwoFactor *TwoFactorChallenge
}

// AuthService handles authentication business logic. It holds no state of
// its own between requests; all shared state lives in the stores.
type AuthService struct {
	users      ports.UserStore
	banned     ports.BannedTokenStore
	challenges ports.ChallengeStore
	tokenizer  ports.Tokenizer
	mailer     ports.Mailer
	eventPub   ports.EventPublisher
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users ports.UserStore,
	banned ports.BannedTokenStore,
	challenges ports.ChallengeStore,
	tokenizer ports.Tokenizer,
	mailer ports.Mailer,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		users:      users,
		banned:     banned,
		challenges: challenges,
		tokenizer:  tokenizer,
		mailer:     mailer,
		eventPub:   eventPub,
	}
}

// Signup registers a new user
func (s *AuthService) Signup(ctx context.Context, email, password string, requiresTwoFactor bool) error {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return ErrBadInput
	}
	pass, err := core.ParsePassword(password)
	if err != nil {
		return ErrBadInput
	}

	user, err := core.NewUser(addr, pass, requiresTwoFactor)
	if err != nil {
		log.Printf("signup: failed to create user record: %v", err)
		return ErrUnexpected
	}

	if err := s.users.Add(ctx, user); err != nil {
		if errors.Is(err, core.ErrUserAlreadyExists) {
			return ErrAlreadyExists
		}
		log.Printf("signup: failed to add user: %v", err)
		return ErrUnexpected
	}

	return nil
}

// Login authenticates a user by email and password. If the user requires a
// second factor, a challenge is stored and its code sent out of band; the
// result then carries the attempt id instead of a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return nil, ErrBadInput
	}
	pass, err := core.ParsePassword(password)
	if err != nil {
		return nil, ErrBadInput
	}

	if err := s.users.Validate(ctx, addr, pass); err != nil {
		return nil, ErrIncorrectCredentials
	}

	user, err := s.users.Get(ctx, addr)
	if err != nil {
		return nil, ErrIncorrectCredentials
	}

	if !user.RequiresTwoFactor {
		token, err := s.tokenizer.Issue(user.Email)
		if err != nil {
			log.Printf("login: failed to issue token: %v", err)
			return nil, ErrUnexpected
		}
		return &LoginResult{Token: token}, nil
	}

	attemptID := core.NewAttemptID()
	code, err := core.GenerateCode()
	if err != nil {
		log.Printf("login: %v", err)
		return nil, ErrUnexpected
	}

	// Overwrites any previous challenge: the latest login attempt wins.
	challenge := core.Challenge{AttemptID: attemptID, Code: code}
	if err := s.challenges.Upsert(ctx, user.Email, challenge); err != nil {
		log.Printf("login: failed to store challenge: %v", err)
		return nil, ErrUnexpected
	}

	if err := s.mailer.Send(ctx, user.Email, TwoFactorSubject, code.String()); err != nil {
		log.Printf("login: failed to send code: %v", err)
		return nil, ErrUnexpected
	}

	return &LoginResult{
		TwoFactor: &TwoFactorChallenge{
			Message:   "2FA required",
			AttemptID: attemptID,
		},
	}, nil
}

// VerifyTwoFactor redeems a second-factor challenge and issues a session
// token. Redemption is single use: an identical second attempt fails because
// the challenge no longer exists.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, email, attemptID, code string) (string, error) {
	addr, err := core.ParseEmail(email)
	if err != nil {
		return "", ErrBadInput
	}
	id, err := core.ParseAttemptID(attemptID)
	if err != nil {
		return "", ErrBadInput
	}
	c, err := core.ParseCode(code)
	if err != nil {
		return "", ErrBadInput
	}

	if err := s.challenges.Redeem(ctx, addr, id, c); err != nil {
		switch {
		case errors.Is(err, core.ErrChallengeNotFound), errors.Is(err, core.ErrChallengeMismatch):
			return "", ErrIncorrectCredentials
		default:
			log.Printf("verify-2fa: failed to redeem challenge: %v", err)
			return "", ErrUnexpected
		}
	}

	token, err := s.tokenizer.Issue(addr)
	if err != nil {
		log.Printf("verify-2fa: failed to issue token: %v", err)
		return "", ErrUnexpected
	}

	return token, nil
}

// Logout verifies the token, adds it to the revocation set, and notifies
// other instances
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}

	session, err := s.tokenizer.Verify(ctx, token)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.banned.Add(ctx, token); err != nil {
		log.Printf("logout: failed to ban token: %v", err)
		return ErrUnexpected
	}

	// The token is already revoked in the store, which is the critical part;
	// a failed event publish is reported but does not fail the logout.
	if err := s.eventPub.PublishLogout(ctx, session.Email, session.ID); err != nil {
		log.Printf("logout: failed to publish event: %v", err)
	}

	return nil
}

// VerifyToken validates a session token without mutating any state. Other
// services use it to check incoming tokens.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*core.Session, error) {
	session, err := s.tokenizer.Verify(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return session, nil
}
