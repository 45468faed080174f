package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

var (
	_ RevocationStore = (*MemoryRevocationStore)(nil)
	_ RevocationStore = (*RedisRevocationStore)(nil)
)

func TestMemoryRevocationStore_RevokeIsIdempotent(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	revoked, err := s.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	require.False(t, revoked)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Revoke(ctx, "tok", exp))
		revoked, err = s.IsRevoked(ctx, "tok")
		require.NoError(t, err)
		require.True(t, revoked)
	}
	require.Equal(t, 1, s.Len())

	revoked, err = s.IsRevoked(ctx, "other")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestMemoryRevocationStore_PruneKeepsLiveEntries(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, s.Revoke(ctx, "expired", now.Add(-time.Second)))
	require.NoError(t, s.Revoke(ctx, "boundary", now))
	require.NoError(t, s.Revoke(ctx, "live", now.Add(time.Minute)))

	require.Equal(t, 2, s.Prune(now))

	revoked, _ := s.IsRevoked(ctx, "live")
	require.True(t, revoked)
	revoked, _ = s.IsRevoked(ctx, "expired")
	require.False(t, revoked)
}

func TestMemoryRevocationStore_RevokeNeverShortensDeadline(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)

	require.NoError(t, s.Revoke(ctx, "tok", now.Add(time.Hour)))
	require.NoError(t, s.Revoke(ctx, "tok", now.Add(time.Minute)))
	s.Prune(now.Add(30 * time.Minute))

	revoked, _ := s.IsRevoked(ctx, "tok")
	require.True(t, revoked)
}

func TestMemoryRevocationStore_Concurrent(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := fmt.Sprintf("tok-%d", i%8)
			_ = s.Revoke(ctx, tok, exp)
			revoked, err := s.IsRevoked(ctx, tok)
			if err != nil || !revoked {
				t.Errorf("token %s not revoked after Revoke", tok)
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 8, s.Len())
}

func TestMemoryRevocationStore_Janitor(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Revoke(ctx, "tok", time.Now().Add(-time.Second)))
	s.StartJanitor(ctx, 5*time.Millisecond)

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func newRedisStore(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRevocationStore(rdb, "test:revoked:"), mr
}

func TestRedisRevocationStore_RevokeAndExpire(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "tok", time.Now().Add(time.Hour)))
	require.NoError(t, s.Revoke(ctx, "tok", time.Now().Add(time.Hour)))

	revoked, err = s.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	require.True(t, revoked)

	key := s.key("tok")
	require.True(t, mr.Exists(key))
	require.InDelta(t, time.Hour.Seconds(), mr.TTL(key).Seconds(), 5)

	mr.FastForward(time.Hour + time.Second)
	revoked, err = s.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestRedisRevocationStore_PastExpiryStillRecorded(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err := s.IsRevoked(ctx, "old")
	require.NoError(t, err)
	require.True(t, revoked)
	require.Equal(t, minRevocationTTL, mr.TTL(s.key("old")))
}

func TestRedisRevocationStore_KeyHidesToken(t *testing.T) {
	s, _ := newRedisStore(t)
	key := s.key("secret-token")
	require.NotContains(t, key, "secret-token")
	require.Contains(t, key, "test:revoked:")
}

func TestRedisRevocationStore_Unavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, err := s.IsRevoked(context.Background(), "tok")
	require.Error(t, err)
}
