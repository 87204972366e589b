package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/craftcv/craftcv-api/internal/config"
	"github.com/craftcv/craftcv-api/internal/handler"
	"github.com/craftcv/craftcv-api/internal/middleware"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ReviewHandler   *handler.ReviewHandler
	ReviewerHandler *handler.ReviewerHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ReviewHandler != nil {
		reviews := app.Group("/api/v2/reviews", jwtMiddleware)
		reviews.Use(methodFilter(fiber.MethodPost, middleware.RateLimit("review_submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow)))
		deps.ReviewHandler.Register(reviews)
	}

	if deps.ReviewerHandler != nil {
		reviewers := app.Group("/api/v2/reviewers", jwtMiddleware)
		deps.ReviewerHandler.Register(reviewers)
	}
}

// methodFilter applies the wrapped handler only to the given HTTP method.
func methodFilter(method string, wrapped fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != method {
			return c.Next()
		}
		return wrapped(c)
	}
}
