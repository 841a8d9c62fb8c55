package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore tracks consumed one-time token IDs (the jti of verification
// links) so a link cannot be replayed. Entries expire together with the
// token's own lifetime.
type TokenStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewTokenStore(rdb *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{rdb: rdb, ttl: ttl}
}

func usedKey(jti string) string { return fmt.Sprintf("club:verify:used:%s", jti) }

// Consume marks a token ID as used. Returns false when it was already
// consumed.
func (s *TokenStore) Consume(ctx context.Context, jti string) (bool, error) {
	return s.rdb.SetNX(ctx, usedKey(jti), "1", s.ttl).Result()
}
