package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

type failingChecker struct{}

func (failingChecker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type gatewayFixture struct {
	app     *fiber.App
	clock   *fakeClock
	tokens  *Authority
	revoked *MemoryRevocationStore
}

func newGatewayFixture(t *testing.T, checker RevocationChecker) *gatewayFixture {
	t.Helper()
	clock := newTestClock()
	tokens := NewAuthority(testSecret, time.Hour, WithClock(clock.Now))
	revoked := NewMemoryRevocationStore()
	if checker == nil {
		checker = revoked
	}
	gw := NewGateway(NewDefaultClassifier(), tokens, checker, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Message)
		},
	})
	app.Use(gw.Handle)
	app.Get("/api/posts", func(c *fiber.Ctx) error { return c.SendString("list") })
	app.Delete("/api/posts/:id", func(c *fiber.Ctx) error {
		local, _ := SubjectFromLocals(c)
		fromCtx, _ := SubjectFromContext(c.UserContext())
		return c.SendString(local + "|" + fromCtx)
	})

	return &gatewayFixture{app: app, clock: clock, tokens: tokens, revoked: revoked}
}

func (f *gatewayFixture) do(t *testing.T, method, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGateway_PublicRouteNeedsNoToken(t *testing.T) {
	f := newGatewayFixture(t, nil)
	status, body := f.do(t, http.MethodGet, "/api/posts", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "list", body)

	status, _ = f.do(t, http.MethodGet, "/api/posts", "Bearer garbage")
	require.Equal(t, http.StatusOK, status)
}

func TestGateway_ProtectedRouteAcceptsValidToken(t *testing.T) {
	f := newGatewayFixture(t, nil)
	tok, err := f.tokens.Issue("admin")
	require.NoError(t, err)

	status, body := f.do(t, http.MethodDelete, "/api/posts/42", "Bearer "+tok.Value)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "admin|admin", body)

	status, _ = f.do(t, http.MethodDelete, "/api/posts/42", "bearer   "+tok.Value+" ")
	require.Equal(t, http.StatusOK, status)
}

func TestGateway_RejectionsAreIndistinguishable(t *testing.T) {
	f := newGatewayFixture(t, nil)

	expired, err := f.tokens.Issue("admin")
	require.NoError(t, err)
	foreign, err := NewAuthority("foreign-secret-foreign-secret-foreign", time.Hour).Issue("admin")
	require.NoError(t, err)

	f.clock.Advance(30 * time.Minute)
	fresh, err := f.tokens.Issue("admin")
	require.NoError(t, err)
	revoked, err := f.tokens.Issue("editor")
	require.NoError(t, err)
	require.NoError(t, f.revoked.Revoke(context.Background(), revoked.Value, revoked.ExpiresAt))
	f.clock.Advance(31 * time.Minute)
	require.NotEqual(t, expired.Value, fresh.Value)

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Basic YWRtaW46YWRtaW4=",
		"Token " + fresh.Value,
		"Bearer not-a-token",
		"Bearer " + expired.Value,
		"Bearer " + revoked.Value,
		"Bearer " + foreign.Value,
	}

	var firstBody string
	for i, h := range headers {
		status, body := f.do(t, http.MethodDelete, "/api/posts/42", h)
		require.Equal(t, http.StatusUnauthorized, status, "header %q", h)
		if i == 0 {
			firstBody = body
		}
		require.Equal(t, firstBody, body, "header %q", h)
	}

	status, _ := f.do(t, http.MethodDelete, "/api/posts/42", "Bearer "+fresh.Value)
	require.Equal(t, http.StatusOK, status)
}

func TestGateway_RevocationLookupFailureRejects(t *testing.T) {
	f := newGatewayFixture(t, failingChecker{})
	tok, err := f.tokens.Issue("admin")
	require.NoError(t, err)

	status, _ := f.do(t, http.MethodDelete, "/api/posts/42", "Bearer "+tok.Value)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestGateway_Resolve(t *testing.T) {
	f := newGatewayFixture(t, nil)
	gw := NewGateway(NewDefaultClassifier(), f.tokens, f.revoked, nil)
	ctx := context.Background()

	tok, err := f.tokens.Issue("admin")
	require.NoError(t, err)

	subject, ok := gw.Resolve(ctx, "Bearer "+tok.Value)
	require.True(t, ok)
	require.Equal(t, "admin", subject)

	require.NoError(t, f.revoked.Revoke(ctx, tok.Value, tok.ExpiresAt))
	_, ok = gw.Resolve(ctx, "Bearer "+tok.Value)
	require.False(t, ok)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "Bearerabc", "Basic abc"} {
		_, ok := BearerToken(h)
		require.False(t, ok, h)
	}
}

func TestSubjectFromContext(t *testing.T) {
	_, ok := SubjectFromContext(context.Background())
	require.False(t, ok)

	subject, ok := SubjectFromContext(WithSubject(context.Background(), "admin"))
	require.True(t, ok)
	require.Equal(t, "admin", subject)
}
