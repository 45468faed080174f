package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/auth"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/events"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

const maxTitleLength = 200

// CreatePostInput carries the fields accepted when creating a post.
type CreatePostInput struct {
	Title  string
	Status domain.PostStatus
}

// PostService lists, creates and deletes posts, keeping metric records in step.
type PostService struct {
	posts      repository.PostRepository
	metrics    *MetricService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPostService builds the service.
func NewPostService(posts repository.PostRepository, metrics *MetricService, dispatcher events.Dispatcher, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{posts: posts, metrics: metrics, dispatcher: dispatcher, logger: logger}
}

// List returns every post with its counters attached.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	carriers := make([]domain.MetricCarrier, len(posts))
	for i, p := range posts {
		carriers[i] = p
	}
	s.metrics.Attach(ctx, carriers)
	return posts, nil
}

// Create stores a new post and initializes its metric record.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if len(title) > maxTitleLength {
		return nil, apperrors.NewValidationError("title is too long", map[string]any{"max_length": maxTitleLength})
	}

	status := input.Status
	switch status {
	case "":
		status = domain.PostStatusDraft
	case domain.PostStatusDraft, domain.PostStatusPublished:
	default:
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	post := &domain.Post{ID: uuid.NewString(), Title: title, Status: status}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.metrics.InitIfAbsent(ctx, post.ID); err != nil {
		s.logger.Warn("metric init failed", zap.String("post_id", post.ID), zap.Error(err))
	}

	actor, _ := auth.SubjectFromContext(ctx)
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventPostCreated,
		Actor:    actor,
		EntityID: post.ID,
		Payload:  events.PostCreatedPayload{Title: post.Title},
	})
	return post, nil
}

// Delete removes the post; its metric record goes with it.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewNotFound("post", nil)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("post", map[string]any{"post_id": id})
		}
		return apperrors.NewInternalError(err)
	}

	actor, _ := auth.SubjectFromContext(ctx)
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventPostDeleted,
		Actor:    actor,
		EntityID: id,
	})
	return nil
}
