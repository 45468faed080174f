package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret!!"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func TestAuthority_IssueAndVerify(t *testing.T) {
	clock := newTestClock()
	a := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))

	tok, err := a.Issue("admin")
	require.NoError(t, err)
	require.Equal(t, "admin", tok.Subject)
	require.Equal(t, clock.Now(), tok.IssuedAt)
	require.Equal(t, clock.Now().Add(time.Hour), tok.ExpiresAt)

	subject, err := a.Verify(tok.Value)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)

	clock.Advance(time.Hour - time.Second)
	subject, err = a.Verify(tok.Value)
	require.NoError(t, err)
	require.Equal(t, "admin", subject)

	clock.Advance(time.Second)
	_, err = a.Verify(tok.Value)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestAuthority_DefaultTTL(t *testing.T) {
	a := NewAuthority(testSecret, 0)
	require.Equal(t, 720*time.Minute, a.TTL())
}

func TestAuthority_IssueRejectsEmptySubject(t *testing.T) {
	a := NewAuthority(testSecret, time.Hour)
	_, err := a.Issue("  ")
	require.ErrorIs(t, err, ErrEmptySubject)
}

func TestAuthority_IssueIsDeterministic(t *testing.T) {
	clock := newTestClock()
	a := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))

	t1, err := a.Issue("admin")
	require.NoError(t, err)
	t2, err := a.Issue("admin")
	require.NoError(t, err)
	require.Equal(t, t1.Value, t2.Value)

	clock.Advance(time.Second)
	t3, err := a.Issue("admin")
	require.NoError(t, err)
	require.NotEqual(t, t1.Value, t3.Value)
}

func TestAuthority_VerifyFailures(t *testing.T) {
	clock := newTestClock()
	a := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))
	other := NewAuthority("another-secret-another-secret-another", time.Hour, WithClock(clock.Now))

	tok, err := other.Issue("admin")
	require.NoError(t, err)
	_, err = a.Verify(tok.Value)
	require.ErrorIs(t, err, ErrBadSignature)

	_, err = a.Verify("")
	require.ErrorIs(t, err, ErrMalformedToken)

	_, err = a.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformedToken)

	good, err := a.Issue("admin")
	require.NoError(t, err)
	parts := strings.Split(good.Value, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = a.Verify(tampered)
	require.Error(t, err)
}

func TestAuthority_RejectsOtherAlgorithms(t *testing.T) {
	clock := newTestClock()
	a := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Verify(none)
	require.Error(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = a.Verify(hs512)
	require.Error(t, err)
}

func TestAuthority_RequiresExpiry(t *testing.T) {
	a := NewAuthority(testSecret, time.Hour)
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "admin"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = a.Verify(noExp)
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestAuthority_RevocationDeadline(t *testing.T) {
	clock := newTestClock()
	a := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))

	tok, err := a.Issue("admin")
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	require.Equal(t, tok.ExpiresAt, a.RevocationDeadline(tok.Value))
	require.Equal(t, clock.Now().Add(time.Hour), a.RevocationDeadline("garbage"))
}
