package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/events"
)

// AuditService writes an audit log line for every admin-facing event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAdminLoggedIn, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventAdminLoggedOut, a.handleSessionEvent)
	a.dispatcher.Subscribe(events.EventPostCreated, a.handlePostEvent)
	a.dispatcher.Subscribe(events.EventPostDeleted, a.handlePostEvent)
}

func (a *AuditService) handleSessionEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor", event.Actor),
		zap.Time("at", event.Timestamp))
	return nil
}

func (a *AuditService) handlePostEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("actor", event.Actor),
		zap.String("post_id", event.EntityID),
		zap.Any("payload", event.Payload),
		zap.Time("at", event.Timestamp))
	return nil
}
