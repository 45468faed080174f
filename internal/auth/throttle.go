package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

// LoginThrottle limits login attempts per client IP with a token bucket.
type LoginThrottle struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type throttleEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle builds a throttle allowing rps attempts per second with
// the given burst. A non-positive rps disables throttling.
func NewLoginThrottle(rps float64, burst int) *LoginThrottle {
	if burst <= 0 {
		burst = 1
	}
	return &LoginThrottle{
		entries: make(map[string]*throttleEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

// Allow consumes one attempt for key.
func (t *LoginThrottle) Allow(key string) bool {
	if t.rps <= 0 {
		return true
	}
	now := t.now()

	t.mu.Lock()
	ent, ok := t.entries[key]
	if !ok {
		ent = &throttleEntry{lim: rate.NewLimiter(t.rps, t.burst)}
		t.entries[key] = ent
	}
	ent.lastSeen = now
	t.mu.Unlock()

	return ent.lim.AllowN(now, 1)
}

// Cleanup drops limiters that have been idle longer than the idle TTL.
func (t *LoginThrottle) Cleanup() {
	cutoff := t.now().Add(-t.idleTTL)

	t.mu.Lock()
	defer t.mu.Unlock()

	for k, ent := range t.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(t.entries, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is cancelled.
func (t *LoginThrottle) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Cleanup()
			}
		}
	}()
}

// Handle rejects requests from clients that exhausted their attempts.
func (t *LoginThrottle) Handle(c *fiber.Ctx) error {
	if !t.Allow(c.IP()) {
		if t.rps > 0 {
			retry := time.Duration(float64(time.Second) / float64(t.rps))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retry.Seconds()+0.999)))
		}
		return apperrors.NewTooManyRequests("too many login attempts")
	}
	return c.Next()
}
