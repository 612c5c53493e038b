package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/roomtalk-api/internal/utils"
	"github.com/noah-isme/roomtalk-api/pkg/token"
)

// TokenBlacklist answers whether a token has been revoked by logout.
type TokenBlacklist interface {
	IsRevoked(c *fiber.Ctx, tokenString string) bool
}

type redisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist wraps a Redis client as a TokenBlacklist. Logout writes
// "blacklist:<token>" keys that expire with the token itself.
func NewRedisBlacklist(client *redis.Client) TokenBlacklist {
	return &redisBlacklist{client: client}
}

func (b *redisBlacklist) IsRevoked(c *fiber.Ctx, tokenString string) bool {
	if b.client == nil {
		return false
	}
	exists, err := b.client.Exists(c.UserContext(), "blacklist:"+tokenString).Result()
	return err == nil && exists > 0
}

// Authenticate validates JWT bearer tokens when present and binds the
// authenticated identity to the request. Requests without a token continue
// anonymously; access gating happens in WithAuth.
func Authenticate(manager *token.Manager, blacklist TokenBlacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := BearerToken(c)
		if tokenString == "" {
			return c.Next()
		}

		claims, err := manager.Verify(tokenString)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		if blacklist != nil && blacklist.IsRevoked(c, tokenString) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		userID, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals("user_id", uint(userID))
		c.Locals("username", claims.Username)
		c.Locals("is_staff", claims.IsStaff)
		c.Locals("is_superuser", claims.IsSuperuser)

		return c.Next()
	}
}

// BearerToken extracts the raw token from the Authorization header, or "".
func BearerToken(c *fiber.Ctx) string {
	authorization := c.Get("Authorization")
	if authorization == "" {
		return ""
	}

	const bearer = "Bearer "
	if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
		return ""
	}

	return strings.TrimSpace(authorization[len(bearer):])
}
