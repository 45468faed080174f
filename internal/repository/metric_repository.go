package repository

import (
	"context"
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// MetricRepository exposes the atomic primitives the metric store is built on.
// Counters are never read, modified and written back by callers.
type MetricRepository interface {
	// Apply adds delta to an existing record, flooring both counters at zero,
	// and reports the number of rows affected (0 when the record is absent).
	Apply(ctx context.Context, postID string, delta domain.MetricDelta, at time.Time) (int64, error)
	// Insert creates a record and returns ErrDuplicate if one already exists.
	Insert(ctx context.Context, record domain.MetricRecord) error
	Get(ctx context.Context, postID string) (*domain.MetricRecord, error)
	ListByPostIDs(ctx context.Context, postIDs []string) ([]domain.MetricRecord, error)
	Delete(ctx context.Context, postID string) error
}

// MetricUpserter is implemented by backends that can apply a delta or create
// the seeded record in a single atomic statement.
type MetricUpserter interface {
	Upsert(ctx context.Context, postID string, delta domain.MetricDelta, at time.Time) (domain.MetricRecord, error)
}

type metricRepository struct {
	db DBTX
}

// NewMetricRepository returns a Postgres-backed implementation.
func NewMetricRepository(db DBTX) MetricRepository {
	return &metricRepository{db: db}
}

func (r *metricRepository) Apply(ctx context.Context, postID string, delta domain.MetricDelta, at time.Time) (int64, error) {
	const query = `
        UPDATE post_metrics
        SET view_count = GREATEST(view_count + $2, 0),
            like_count = GREATEST(like_count + $3, 0),
            updated_at = $4
        WHERE post_id = $1`

	cmd, err := r.db.Exec(ctx, query, postID, delta.Views, delta.Likes, at)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *metricRepository) Upsert(ctx context.Context, postID string, delta domain.MetricDelta, at time.Time) (domain.MetricRecord, error) {
	const query = `
        INSERT INTO post_metrics (post_id, view_count, like_count, updated_at)
        VALUES ($1, $2, $3, $6)
        ON CONFLICT (post_id) DO UPDATE
        SET view_count = GREATEST(post_metrics.view_count + $4, 0),
            like_count = GREATEST(post_metrics.like_count + $5, 0),
            updated_at = EXCLUDED.updated_at
        RETURNING post_id, view_count, like_count, updated_at`

	seedViews, seedLikes := delta.Seed()
	var rec domain.MetricRecord
	err := r.db.QueryRow(ctx, query, postID, seedViews, seedLikes, delta.Views, delta.Likes, at).
		Scan(&rec.PostID, &rec.ViewCount, &rec.LikeCount, &rec.UpdatedAt)
	if err != nil {
		return domain.MetricRecord{}, err
	}
	return rec, nil
}

func (r *metricRepository) Insert(ctx context.Context, record domain.MetricRecord) error {
	const query = `
        INSERT INTO post_metrics (post_id, view_count, like_count, updated_at)
        VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, record.PostID, record.ViewCount, record.LikeCount, record.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *metricRepository) Get(ctx context.Context, postID string) (*domain.MetricRecord, error) {
	const query = `
        SELECT post_id, view_count, like_count, updated_at
        FROM post_metrics WHERE post_id = $1`

	var rec domain.MetricRecord
	if err := r.db.QueryRow(ctx, query, postID).Scan(
		&rec.PostID,
		&rec.ViewCount,
		&rec.LikeCount,
		&rec.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &rec, nil
}

func (r *metricRepository) ListByPostIDs(ctx context.Context, postIDs []string) ([]domain.MetricRecord, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	const query = `
        SELECT post_id, view_count, like_count, updated_at
        FROM post_metrics WHERE post_id = ANY($1)`

	rows, err := r.db.Query(ctx, query, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.MetricRecord
	for rows.Next() {
		var rec domain.MetricRecord
		if err := rows.Scan(&rec.PostID, &rec.ViewCount, &rec.LikeCount, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *metricRepository) Delete(ctx context.Context, postID string) error {
	const query = `DELETE FROM post_metrics WHERE post_id = $1`
	_, err := r.db.Exec(ctx, query, postID)
	return err
}
