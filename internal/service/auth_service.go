package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

const invalidCredentials = "invalid username or password"

// Session describes who, if anyone, an Authorization header belongs to.
type Session struct {
	LoggedIn bool
	Username string
}

// AuthService coordinates admin login, logout and session lookups.
type AuthService struct {
	admins     repository.AdminRepository
	tokens     *auth.Authority
	revoked    auth.RevocationStore
	gateway    *auth.Gateway
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	Admins     repository.AdminRepository
	Tokens     *auth.Authority
	Revoked    auth.RevocationStore
	Gateway    *auth.Gateway
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admins:     deps.Admins,
		tokens:     deps.Tokens,
		revoked:    deps.Revoked,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: deps.BcryptCost,
	}
}

// Login checks the admin's credentials and issues a token. Unknown users and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (auth.Token, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return auth.Token{}, apperrors.NewUnauthorized(invalidCredentials)
	}

	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error("admin lookup failed", zap.String("username", username), zap.Error(err))
		}
		return auth.Token{}, apperrors.NewUnauthorized(invalidCredentials)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return auth.Token{}, apperrors.NewUnauthorized(invalidCredentials)
	}

	token, err := s.tokens.Issue(admin.Username)
	if err != nil {
		return auth.Token{}, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{Type: events.EventAdminLoggedIn, Actor: admin.Username})
	return token, nil
}

// Logout revokes the bearer token in header until it would have expired.
// A missing token is a no-op.
func (s *AuthService) Logout(ctx context.Context, header string) error {
	token, ok := auth.BearerToken(header)
	if !ok {
		return nil
	}

	subject, _ := s.gateway.Resolve(ctx, header)
	if err := s.revoked.Revoke(ctx, token, s.tokens.RevocationDeadline(token)); err != nil {
		return apperrors.NewInternalError(err)
	}

	if subject != "" {
		s.publishEvent(ctx, events.Event{Type: events.EventAdminLoggedOut, Actor: subject})
	}
	return nil
}

// Session reports whether header carries a live token.
func (s *AuthService) Session(ctx context.Context, header string) Session {
	subject, ok := s.gateway.Resolve(ctx, header)
	if !ok {
		return Session{}
	}
	return Session{LoggedIn: true, Username: subject}
}

// EnsureAdmin creates the admin account when it does not exist yet. An
// existing account keeps its password.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.admins.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	err = s.admins.Create(ctx, &domain.AdminUser{Username: username, PasswordHash: hash})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	s.logger.Info("admin account ensured", zap.String("username", username))
	return nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	publish(ctx, s.dispatcher, s.logger, event)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
