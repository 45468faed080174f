package auth

import (
	"context"
	"crypto/sha256"
	"sync"
	"time"
)

// RevocationChecker reports whether a token was invalidated before its expiry.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RevocationStore records revocations. Revoke is idempotent; expiresAt is the
// instant after which the token can no longer verify, so the entry may be
// forgotten.
type RevocationStore interface {
	RevocationChecker
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
}

type tokenDigest [sha256.Size]byte

func digest(token string) tokenDigest {
	return sha256.Sum256([]byte(token))
}

// MemoryRevocationStore keeps revocations in process memory. Entries are
// pruned once the revoked token has expired.
type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[tokenDigest]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore returns an empty in-process store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[tokenDigest]time.Time),
		now:     time.Now,
	}
}

// Revoke implements RevocationStore.
func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	key := digest(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.entries[key]; ok && current.After(expiresAt) {
		return nil
	}
	s.entries[key] = expiresAt
	return nil
}

// IsRevoked implements RevocationChecker.
func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[digest(token)]
	return ok, nil
}

// Len returns the number of remembered revocations.
func (s *MemoryRevocationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Prune forgets revocations whose tokens expired at or before now.
func (s *MemoryRevocationStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, expiresAt := range s.entries {
		if !expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// StartJanitor prunes expired entries every interval until ctx is cancelled.
func (s *MemoryRevocationStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Prune(s.now())
			}
		}
	}()
}
