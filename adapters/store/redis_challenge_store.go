package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
	"github.com/redis/go-redis/v9"
)

// redeemScript deletes the challenge only if the stored value matches, so the
// whole get-compare-remove sequence runs as one atomic Redis operation.
// Returns -1 when no challenge exists, 0 on mismatch, 1 on redemption.
var redeemScript = redis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then
	return -1
end
if v ~= ARGV[1] then
	return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

// RedisChallengeStore is a Redis implementation of the ChallengeStore
// interface. Challenges are stored as "attemptID:code" under a per-email key
// with a TTL.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisChallengeStore creates a new Redis challenge store
func NewRedisChallengeStore(client *redis.Client, ttl time.Duration) ports.ChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "warden:challenge:",
		ttl:    ttl,
	}
}

func (s *RedisChallengeStore) key(email core.Email) string {
	return s.prefix + email.String()
}

func encodeChallenge(challenge core.Challenge) string {
	return challenge.AttemptID.String() + ":" + challenge.Code.String()
}

func decodeChallenge(value string) (core.Challenge, error) {
	rawID, rawCode, found := strings.Cut(value, ":")
	if !found {
		return core.Challenge{}, fmt.Errorf("malformed challenge record %q", value)
	}
	attemptID, err := core.ParseAttemptID(rawID)
	if err != nil {
		return core.Challenge{}, err
	}
	code, err := core.ParseCode(rawCode)
	if err != nil {
		return core.Challenge{}, err
	}
	return core.Challenge{AttemptID: attemptID, Code: code}, nil
}

// Upsert replaces any existing challenge for the email
func (s *RedisChallengeStore) Upsert(ctx context.Context, email core.Email, challenge core.Challenge) error {
	if err := s.client.Set(ctx, s.key(email), encodeChallenge(challenge), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}

	return nil
}

// Get returns the active challenge for the email
func (s *RedisChallengeStore) Get(ctx context.Context, email core.Email) (core.Challenge, error) {
	val, err := s.client.Get(ctx, s.key(email)).Result()
	if err != nil {
		if err == redis.Nil {
			return core.Challenge{}, core.ErrChallengeNotFound
		}
		return core.Challenge{}, fmt.Errorf("failed to get challenge: %w", err)
	}

	return decodeChallenge(val)
}

// Remove deletes the active challenge for the email
func (s *RedisChallengeStore) Remove(ctx context.Context, email core.Email) error {
	deleted, err := s.client.Del(ctx, s.key(email)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove challenge: %w", err)
	}
	if deleted == 0 {
		return core.ErrChallengeNotFound
	}

	return nil
}

// Redeem compares and removes the challenge in a single script evaluation so
// two concurrent redemptions cannot both succeed.
func (s *RedisChallengeStore) Redeem(ctx context.Context, email core.Email, attemptID core.AttemptID, code core.Code) error {
	expected := encodeChallenge(core.Challenge{AttemptID: attemptID, Code: code})

	res, err := redeemScript.Run(ctx, s.client, []string{s.key(email)}, expected).Int()
	if err != nil {
		return fmt.Errorf("failed to redeem challenge: %w", err)
	}

	switch res {
	case -1:
		return core.ErrChallengeNotFound
	case 0:
		return core.ErrChallengeMismatch
	default:
		return nil
	}
}
