package repository

import (
	"context"

	"github.com/spec-kit/content-service/internal/domain"
)

// PostRepository is the narrow slice of post persistence the core depends on.
type PostRepository interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db DBTX
}

// NewPostRepository returns a Postgres-backed implementation.
func NewPostRepository(db DBTX) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	const query = `
        SELECT id, title, status, created_at, updated_at
        FROM posts ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		var p domain.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (id, title, status)
        VALUES ($1, $2, $3)
        RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, post.ID, post.Title, post.Status).
		Scan(&post.CreatedAt, &post.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// Delete removes the post; its metric record goes with it through the
// foreign key's ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM posts WHERE id = $1`

	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
