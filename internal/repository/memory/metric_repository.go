package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// MetricRepository is an in-memory implementation of repository.MetricRepository.
// Each primitive is atomic under the repository lock, mirroring single-row
// statements in Postgres. It deliberately has no Upsert so callers go through
// the update-or-insert protocol.
type MetricRepository struct {
	mu      sync.RWMutex
	records map[string]domain.MetricRecord
}

var _ repository.MetricRepository = (*MetricRepository)(nil)

// NewMetricRepository creates an empty repository.
func NewMetricRepository() *MetricRepository {
	return &MetricRepository{records: make(map[string]domain.MetricRecord)}
}

// Apply adds delta to an existing record.
func (r *MetricRepository) Apply(_ context.Context, postID string, delta domain.MetricDelta, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[postID]
	if !ok {
		return 0, nil
	}
	rec.ViewCount = max(rec.ViewCount+delta.Views, 0)
	rec.LikeCount = max(rec.LikeCount+delta.Likes, 0)
	rec.UpdatedAt = at
	r.records[postID] = rec
	return 1, nil
}

// Insert creates a record unless one exists.
func (r *MetricRepository) Insert(_ context.Context, record domain.MetricRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[record.PostID]; ok {
		return repository.ErrDuplicate
	}
	r.records[record.PostID] = record
	return nil
}

// Get returns a copy of the record for postID.
func (r *MetricRepository) Get(_ context.Context, postID string) (*domain.MetricRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

// ListByPostIDs returns the records that exist among postIDs.
func (r *MetricRepository) ListByPostIDs(_ context.Context, postIDs []string) ([]domain.MetricRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.MetricRecord
	for _, id := range postIDs {
		if rec, ok := r.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Delete removes the record for postID if present.
func (r *MetricRepository) Delete(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, postID)
	return nil
}
