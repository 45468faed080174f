package domain

import "time"

// MetricRecord holds the counters of one post. Both counters are never negative.
type MetricRecord struct {
	PostID    string
	ViewCount int64
	LikeCount int64
	UpdatedAt time.Time
}

// MetricSnapshot is the post-operation view of a record.
type MetricSnapshot struct {
	PostID    string
	ViewCount int64
	LikeCount int64
}

// Snapshot returns the counters of r.
func (r MetricRecord) Snapshot() MetricSnapshot {
	return MetricSnapshot{PostID: r.PostID, ViewCount: r.ViewCount, LikeCount: r.LikeCount}
}

// MetricCarrier is an entity representation that metric counts can be merged onto.
type MetricCarrier interface {
	MetricID() string
	ApplyMetrics(views, likes int64)
}

// MetricDelta describes one counter mutation. Seed is the record inserted when
// none exists yet.
type MetricDelta struct {
	Views int64
	Likes int64
}

// Seed returns the counters a fresh record starts with when d is applied to
// an absent record. Decrements floor at zero.
func (d MetricDelta) Seed() (views, likes int64) {
	return max(d.Views, 0), max(d.Likes, 0)
}
