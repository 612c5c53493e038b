package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationKeyType struct{}

var correlationContextKey = correlationKeyType{}

// requestIDHeaders are consulted in order; the first non-empty value wins.
var requestIDHeaders = []string{"X-Correlation-ID", "X-Request-ID"}

// CorrelationID tags every request with an identifier so a single forum
// action can be traced through the access log and service logs. Clients may
// supply their own; otherwise one is minted.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := ""
		for _, header := range requestIDHeaders {
			if v := strings.TrimSpace(c.Get(header)); v != "" {
				id = v
				break
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationContextKey, id))

		return c.Next()
	}
}

// GetCorrelationID returns the identifier bound to the active request, or "".
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok {
		return id
	}
	if id, ok := c.Context().Value(correlationContextKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithCorrelation carries the identifier into contexts handed to the
// service layer.
func ContextWithCorrelation(ctx context.Context, correlationID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationContextKey, correlationID)
}
