package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/dto"
	"github.com/spec-kit/content-service/internal/domain"
	"github.com/spec-kit/content-service/internal/service"
)

// PostsHandler exposes post listing, management and metric endpoints.
type PostsHandler struct {
	posts   *service.PostService
	metrics *service.MetricService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(posts *service.PostService, metrics *service.MetricService) *PostsHandler {
	return &PostsHandler{posts: posts, metrics: metrics}
}

// List handles GET /api/posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.UserContext())
	if err != nil {
		return err
	}

	resp := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, dto.NewPostResponse(p))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.posts.Create(c.UserContext(), service.CreatePostInput{
		Title:  req.Title,
		Status: domain.PostStatus(strings.ToUpper(strings.TrimSpace(req.Status))),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPostResponse(post)})
}

// Delete handles DELETE /api/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	if err := h.posts.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// View handles POST /api/posts/:id/view.
func (h *PostsHandler) View(c *fiber.Ctx) error {
	return h.respondMetric(c, h.metrics.IncrementView)
}

// Like handles POST /api/posts/:id/like.
func (h *PostsHandler) Like(c *fiber.Ctx) error {
	return h.respondMetric(c, h.metrics.IncrementLike)
}

// Unlike handles POST /api/posts/:id/unlike.
func (h *PostsHandler) Unlike(c *fiber.Ctx) error {
	return h.respondMetric(c, h.metrics.DecrementLike)
}

func (h *PostsHandler) respondMetric(c *fiber.Ctx, op func(context.Context, string) (domain.MetricSnapshot, error)) error {
	snap, err := op(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMetricResponse(snap)})
}
