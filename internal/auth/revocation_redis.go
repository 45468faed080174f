package auth

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const minRevocationTTL = time.Second

// RedisRevocationStore shares revocations between instances. Each revoked
// token is a key that expires together with the token.
type RedisRevocationStore struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisRevocationStore builds a store writing keys under prefix.
func NewRedisRevocationStore(rdb redis.UniversalClient, prefix string) *RedisRevocationStore {
	prefix = strings.Trim(prefix, ":")
	if prefix == "" {
		prefix = "auth:revoked"
	}
	return &RedisRevocationStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (s *RedisRevocationStore) key(token string) string {
	d := digest(token)
	return s.prefix + ":" + hex.EncodeToString(d[:])
}

// Revoke implements RevocationStore.
func (s *RedisRevocationStore) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(s.now())
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}
	return s.rdb.Set(ctx, s.key(token), 1, ttl).Err()
}

// IsRevoked implements RevocationChecker.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
