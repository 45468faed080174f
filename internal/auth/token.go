package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is used when no positive lifetime is configured.
const DefaultTokenTTL = 720 * time.Minute

// Verification failures. Callers outside this package collapse all of them
// into a single unauthorized outcome.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("token expired")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrEmptySubject   = errors.New("token subject required")
)

// Token is an issued, signed credential.
type Token struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authority issues and verifies HS256 identity tokens.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// AuthorityOption customizes an Authority.
type AuthorityOption func(*Authority)

// WithClock overrides the wall clock used for issuance and verification.
func WithClock(now func() time.Time) AuthorityOption {
	return func(a *Authority) { a.now = now }
}

// NewAuthority builds a token authority keyed by secret.
func NewAuthority(secret string, ttl time.Duration, opts ...AuthorityOption) *Authority {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	a := &Authority{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// TTL returns the configured token lifetime.
func (a *Authority) TTL() time.Duration {
	return a.ttl
}

// Issue builds and signs a token for subject.
func (a *Authority) Issue(subject string) (Token, error) {
	if strings.TrimSpace(subject) == "" {
		return Token{}, ErrEmptySubject
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{
		Value:     signed,
		Subject:   subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify returns the subject of a valid token. A token is valid while its
// signature matches and now < expiresAt.
func (a *Authority) Verify(tokenStr string) (string, error) {
	claims, err := a.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RevocationDeadline reports how long a revocation of tokenStr must be
// remembered: the token's own expiry when it verifies, otherwise one full
// lifetime from now.
func (a *Authority) RevocationDeadline(tokenStr string) time.Time {
	claims, err := a.parse(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return a.now().Add(a.ttl)
	}
	return claims.ExpiresAt.Time
}

func (a *Authority) parse(tokenStr string) (*jwt.RegisteredClaims, error) {
	if tokenStr == "" {
		return nil, ErrMalformedToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrBadSignature
	default:
		return nil, ErrMalformedToken
	}

	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
