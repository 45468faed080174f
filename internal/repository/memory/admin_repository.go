package memory

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/repository"
)

// AdminRepository is an in-memory implementation of repository.AdminRepository.
type AdminRepository struct {
	mu     sync.RWMutex
	admins map[string]domain.AdminUser
	nextID int64
}

var _ repository.AdminRepository = (*AdminRepository)(nil)

// NewAdminRepository creates an empty repository.
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{admins: make(map[string]domain.AdminUser)}
}

// Create stores admin, assigning its ID.
func (r *AdminRepository) Create(_ context.Context, admin *domain.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[admin.Username]; ok {
		return repository.ErrDuplicate
	}
	r.nextID++
	admin.ID = r.nextID
	admin.CreatedAt = time.Now().UTC()
	r.admins[admin.Username] = *admin
	return nil
}

// GetByUsername returns a copy of the stored admin.
func (r *AdminRepository) GetByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &admin, nil
}
