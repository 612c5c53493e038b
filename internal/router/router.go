package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/roomtalk-api/internal/config"
	"github.com/noah-isme/roomtalk-api/internal/handler"
	"github.com/noah-isme/roomtalk-api/internal/middleware"
	"github.com/noah-isme/roomtalk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	RoomHandler    *handler.RoomHandler
	MessageHandler *handler.MessageHandler
	ProfileHandler *handler.ProfileHandler
	TopicHandler   *handler.TopicHandler
	AuthMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided auth middleware, or a no-op if nil
	authMiddleware := deps.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute), authMiddleware)
		deps.AuthHandler.Register(auth)
	}

	if deps.RoomHandler != nil {
		rooms := api.Group("/rooms", authMiddleware)
		deps.RoomHandler.Register(rooms)
	}

	if deps.MessageHandler != nil {
		messages := api.Group("/messages", authMiddleware)
		deps.MessageHandler.Register(messages)

		activity := api.Group("/activity", authMiddleware)
		deps.MessageHandler.RegisterActivity(activity)
	}

	if deps.ProfileHandler != nil {
		users := api.Group("/users", authMiddleware)
		deps.ProfileHandler.Register(users)
	}

	if deps.TopicHandler != nil {
		topics := api.Group("/topics", authMiddleware)
		deps.TopicHandler.Register(topics)
	}
}
