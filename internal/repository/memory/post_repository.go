package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// PostRepository is an in-memory implementation of repository.PostRepository.
type PostRepository struct {
	mu      sync.RWMutex
	posts   map[string]domain.Post
	metrics repository.MetricRepository
}

var _ repository.PostRepository = (*PostRepository)(nil)

// NewPostRepository creates an empty repository. Deleting a post also
// deletes its record from metrics, standing in for the cascading foreign key.
func NewPostRepository(metrics repository.MetricRepository) *PostRepository {
	return &PostRepository{posts: make(map[string]domain.Post), metrics: metrics}
}

// List returns all posts, newest first.
func (r *PostRepository) List(_ context.Context) ([]*domain.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Exists reports whether a post with id is stored.
func (r *PostRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.posts[id]
	return ok, nil
}

// Create stores post and stamps its timestamps.
func (r *PostRepository) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	r.posts[post.ID] = *post
	return nil
}

// Delete removes the post and its metric record.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.posts[id]; !ok {
		r.mu.Unlock()
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	r.mu.Unlock()

	if r.metrics != nil {
		return r.metrics.Delete(ctx, id)
	}
	return nil
}
