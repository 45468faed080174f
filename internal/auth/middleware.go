package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

const subjectKey = "auth_subject"

type subjectCtxKey struct{}

// Gateway makes the per-request authorization decision: public routes pass,
// protected routes need a bearer token that verifies and is not revoked.
type Gateway struct {
	classifier *Classifier
	tokens     *Authority
	revoked    RevocationChecker
	logger     *zap.Logger
}

// NewGateway constructs the gateway middleware.
func NewGateway(classifier *Classifier, tokens *Authority, revoked RevocationChecker, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{classifier: classifier, tokens: tokens, revoked: revoked, logger: logger}
}

// Handle enforces authentication for protected routes.
func (g *Gateway) Handle(c *fiber.Ctx) error {
	if g.classifier.Classify(c.Method(), c.Path()) == Public {
		return c.Next()
	}

	subject, ok := g.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if !ok {
		g.logger.Debug("request rejected", zap.String("method", c.Method()), zap.String("path", c.Path()))
		return apperrors.NewUnauthorized("unauthorized")
	}

	c.Locals(subjectKey, subject)
	c.SetUserContext(WithSubject(c.UserContext(), subject))
	return c.Next()
}

// Resolve returns the subject of the bearer token in header when it verifies
// and has not been revoked. The reason for a failure is not reported.
func (g *Gateway) Resolve(ctx context.Context, header string) (string, bool) {
	token, ok := BearerToken(header)
	if !ok {
		return "", false
	}

	subject, err := g.tokens.Verify(token)
	if err != nil {
		return "", false
	}

	revoked, err := g.revoked.IsRevoked(ctx, token)
	if err != nil {
		g.logger.Warn("revocation lookup failed", zap.Error(err))
		return "", false
	}
	if revoked {
		return "", false
	}
	return subject, true
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// WithSubject returns a context carrying the authenticated subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, subject)
}

// SubjectFromContext retrieves the subject stored by WithSubject.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectCtxKey{}).(string)
	return subject, ok && subject != ""
}

// SubjectFromLocals retrieves the subject attached by Gateway.Handle.
func SubjectFromLocals(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectKey).(string)
	return subject, ok && subject != ""
}
