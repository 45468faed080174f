package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
	apperrors "github.com/spec-kit/content-service/pkg/util/errorutil"
)

var (
	viewDelta   = domain.MetricDelta{Views: 1}
	likeDelta   = domain.MetricDelta{Likes: 1}
	unlikeDelta = domain.MetricDelta{Likes: -1}
)

// MetricService owns the view/like counters of posts. Concurrency control is
// left to the repository's atomic primitives; nothing here locks.
type MetricService struct {
	metrics repository.MetricRepository
	upsert  repository.MetricUpserter
	posts   repository.PostRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewMetricService builds the service. When metrics also implements
// repository.MetricUpserter every mutation is a single upsert statement.
func NewMetricService(metrics repository.MetricRepository, posts repository.PostRepository, logger *zap.Logger) *MetricService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MetricService{metrics: metrics, posts: posts, logger: logger, now: time.Now}
	if u, ok := metrics.(repository.MetricUpserter); ok {
		s.upsert = u
	}
	return s
}

// IncrementView adds one view to the post.
func (s *MetricService) IncrementView(ctx context.Context, postID string) (domain.MetricSnapshot, error) {
	return s.mutate(ctx, postID, viewDelta)
}

// IncrementLike adds one like to the post.
func (s *MetricService) IncrementLike(ctx context.Context, postID string) (domain.MetricSnapshot, error) {
	return s.mutate(ctx, postID, likeDelta)
}

// DecrementLike removes one like from the post, never going below zero.
func (s *MetricService) DecrementLike(ctx context.Context, postID string) (domain.MetricSnapshot, error) {
	return s.mutate(ctx, postID, unlikeDelta)
}

// InitIfAbsent creates a zeroed record for postID. Losing the race to a
// concurrent initializer is not an error.
func (s *MetricService) InitIfAbsent(ctx context.Context, postID string) error {
	if strings.TrimSpace(postID) == "" {
		return nil
	}
	if _, err := s.metrics.Get(ctx, postID); err == nil {
		return nil
	}

	err := s.metrics.Insert(ctx, domain.MetricRecord{PostID: postID, UpdatedAt: s.now().UTC()})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	return nil
}

// Attach merges counters onto items, defaulting to zero for items without a
// record. It never fails and never creates records.
func (s *MetricService) Attach(ctx context.Context, items []domain.MetricCarrier) {
	if len(items) == 0 {
		return
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if id := item.MetricID(); id != "" {
			ids = append(ids, id)
		}
	}

	byID := make(map[string]domain.MetricRecord, len(ids))
	if len(ids) > 0 {
		records, err := s.metrics.ListByPostIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("metric attach failed", zap.Int("count", len(ids)), zap.Error(err))
		}
		for _, rec := range records {
			byID[rec.PostID] = rec
		}
	}

	for _, item := range items {
		if item == nil {
			continue
		}
		rec := byID[item.MetricID()]
		item.ApplyMetrics(rec.ViewCount, rec.LikeCount)
	}
}

func (s *MetricService) mutate(ctx context.Context, postID string, delta domain.MetricDelta) (domain.MetricSnapshot, error) {
	if err := s.ensurePostExists(ctx, postID); err != nil {
		return domain.MetricSnapshot{}, err
	}
	return s.apply(ctx, postID, delta), nil
}

// apply performs the mutation and reads back the counters. Storage failures
// yield a zeroed snapshot.
func (s *MetricService) apply(ctx context.Context, postID string, delta domain.MetricDelta) domain.MetricSnapshot {
	zero := domain.MetricSnapshot{PostID: postID}
	now := s.now().UTC()

	if s.upsert != nil {
		rec, err := s.upsert.Upsert(ctx, postID, delta, now)
		if err != nil {
			s.logger.Warn("metric upsert failed", zap.String("post_id", postID), zap.Error(err))
			return zero
		}
		return rec.Snapshot()
	}

	if err := s.applyOrInsert(ctx, postID, delta, now); err != nil {
		s.logger.Warn("metric update failed", zap.String("post_id", postID), zap.Error(err))
		return zero
	}

	rec, err := s.metrics.Get(ctx, postID)
	if err != nil {
		s.logger.Warn("metric read failed", zap.String("post_id", postID), zap.Error(err))
		return zero
	}
	return rec.Snapshot()
}

// applyOrInsert updates the record in place; when it does not exist yet the
// seeded record is inserted, and if a concurrent caller inserted first the
// update is retried once against their row.
func (s *MetricService) applyOrInsert(ctx context.Context, postID string, delta domain.MetricDelta, now time.Time) error {
	affected, err := s.metrics.Apply(ctx, postID, delta, now)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	views, likes := delta.Seed()
	err = s.metrics.Insert(ctx, domain.MetricRecord{PostID: postID, ViewCount: views, LikeCount: likes, UpdatedAt: now})
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrDuplicate) {
		return err
	}

	_, err = s.metrics.Apply(ctx, postID, delta, now)
	return err
}

func (s *MetricService) ensurePostExists(ctx context.Context, postID string) error {
	if strings.TrimSpace(postID) == "" {
		return apperrors.NewNotFound("post", nil)
	}
	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !exists {
		return apperrors.NewNotFound("post", map[string]any{"post_id": postID})
	}
	return nil
}
