package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTokenTTL = 24 * time.Hour

// appendTokenScript pushes ARGV[1] to the tail of the session list, trims
// the list to its newest ARGV[2] entries and refreshes the key expiry
// (ARGV[3], milliseconds). Running it as one script keeps insert and
// eviction atomic across replicas.
const appendTokenScript = `
redis.call("RPUSH", KEYS[1], ARGV[1])
local limit = tonumber(ARGV[2])
if limit > 0 then
  redis.call("LTRIM", KEYS[1], -limit, -1)
end
redis.call("PEXPIRE", KEYS[1], ARGV[3])
return redis.call("LLEN", KEYS[1])
`

var appendTokenLua = redis.NewScript(appendTokenScript)

// TokenStore implements ports.TokenSetStore on Redis so that CSRF tokens
// survive restarts and are shared by every replica. One list per session:
// key csrf:<sessionID>, oldest token at the head.
type TokenStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewTokenStore creates a TokenStore. Idle session sets expire after ttl;
// ttl <= 0 selects defaultTokenTTL.
func NewTokenStore(client redis.UniversalClient, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Append(ctx context.Context, sessionID, token string, limit int) error {
	err := appendTokenLua.Run(ctx, s.client, []string{s.key(sessionID)}, token, limit, s.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("csrf append: %w", err)
	}
	return nil
}

// Consume relies on LREM being atomic: of two concurrent consumers of the
// same token exactly one sees a removed count of 1.
func (s *TokenStore) Consume(ctx context.Context, sessionID, token string) (bool, error) {
	n, err := s.client.LRem(ctx, s.key(sessionID), 1, token).Result()
	if err != nil {
		return false, fmt.Errorf("csrf consume: %w", err)
	}
	return n > 0, nil
}

func (s *TokenStore) Drop(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("csrf drop: %w", err)
	}
	return nil
}

func (s *TokenStore) key(sessionID string) string {
	return "csrf:" + sessionID
}
