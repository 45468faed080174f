package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/content-service/internal/api/http/handlers"
	"github.com/spec-kit/content-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Posts    *handlers.PostsHandler
	Gateway  *auth.Gateway
	Throttle *auth.LoginThrottle
}

// RegisterRoutes wires HTTP routes. Everything under /api passes the auth
// gateway, which decides per route whether a token is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.Gateway.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Throttle.Handle, cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/session", cfg.Auth.Session)

	posts := api.Group("/posts")
	posts.Get("", cfg.Posts.List)
	posts.Post("", cfg.Posts.Create)
	posts.Delete("/:id", cfg.Posts.Delete)
	posts.Post("/:id/view", cfg.Posts.View)
	posts.Post("/:id/like", cfg.Posts.Like)
	posts.Post("/:id/unlike", cfg.Posts.Unlike)
}
