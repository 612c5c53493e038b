package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/roomtalk-api/internal/config"
	"github.com/noah-isme/roomtalk-api/internal/utils"
)

var serverStartedAt = time.Now().UTC()

// HealthResponse reports liveness details for load balancers and uptime checks.
type HealthResponse struct {
	Status        string    `json:"status"`
	Service       string    `json:"service"`
	Environment   string    `json:"environment"`
	Timestamp     time.Time `json:"timestamp"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// HealthCheck returns the liveness probe handler.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now().UTC()
		return utils.SendSuccess(c, "service healthy", HealthResponse{
			Status:        "ok",
			Service:       cfg.AppName,
			Environment:   cfg.AppEnv,
			Timestamp:     now,
			UptimeSeconds: int64(now.Sub(serverStartedAt).Seconds()),
		})
	}
}
