package domain

import "time"

// PostStatus represents lifecycle states for a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// Post is the subset of a blog post this service reads and writes. View and
// like counts are never persisted on the post itself; they are attached from
// the metric store when posts are listed.
type Post struct {
	ID        string
	Title     string
	Status    PostStatus
	ViewCount int64
	LikeCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetricID implements MetricCarrier.
func (p *Post) MetricID() string { return p.ID }

// ApplyMetrics implements MetricCarrier.
func (p *Post) ApplyMetrics(views, likes int64) {
	p.ViewCount = views
	p.LikeCount = likes
}
