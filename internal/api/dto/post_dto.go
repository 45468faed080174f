package dto

import (
	"time"

	"github.com/spec-kit/content-service/internal/domain"
)

// CreatePostRequest payload for creating a post.
type CreatePostRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// PostResponse is the public representation of a post.
type PostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	ViewCount int64     `json:"view_count"`
	LikeCount int64     `json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetricResponse is returned by the view, like and unlike endpoints.
type MetricResponse struct {
	PostID    string `json:"post_id"`
	ViewCount int64  `json:"view_count"`
	LikeCount int64  `json:"like_count"`
}

// NewPostResponse maps a domain post.
func NewPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Status:    string(p.Status),
		ViewCount: p.ViewCount,
		LikeCount: p.LikeCount,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewMetricResponse maps a metric snapshot.
func NewMetricResponse(s domain.MetricSnapshot) MetricResponse {
	return MetricResponse{PostID: s.PostID, ViewCount: s.ViewCount, LikeCount: s.LikeCount}
}
