package crmsim

import (
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewFailureMiddleware rejects a fraction of requests with retryable status
// codes so the reconciler's backoff behavior can be exercised end to end.
// A rate of 0 disables injection. Injected failures alternate between 503
// and 429.
func NewFailureMiddleware(rate float64, l *zap.Logger) fiber.Handler {
	if l == nil {
		l = zap.NewNop()
	}
	var flip bool
	return func(c *fiber.Ctx) error {
		if rate <= 0 || rand.Float64() >= rate {
			return c.Next()
		}

		status := fiber.StatusServiceUnavailable
		if flip {
			status = fiber.StatusTooManyRequests
		}
		flip = !flip

		l.Debug("Injected failure",
			zap.Int("status", status),
			zap.String("path", c.Path()),
		)
		return c.Status(status).JSON(fiber.Map{
			"error": "injected failure",
		})
	}
}
