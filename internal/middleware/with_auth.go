package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/roomtalk-api/internal/utils"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	RequireUser  bool
	RequireStaff bool
}

// WithAuth wraps a handler with authentication and privilege guards. The
// guards run in order: a missing identity is a 401, an authenticated but
// unprivileged user is a 403. Ownership checks stay in the services.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	requireUser := opts.RequireUser || opts.RequireStaff

	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id")
		if requireUser && userID == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if opts.RequireStaff {
			isStaff, _ := c.Locals("is_staff").(bool)
			if !isStaff {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		return handler(c)
	}
}
