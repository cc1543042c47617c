package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RayIDHeader is the response header carrying the request's RayID.
const RayIDHeader = "X-Ray-ID"

// NewRayID assigns a unique RayID to every request. Incoming values in the
// header are trusted so callers can correlate retries across attempts;
// otherwise a fresh UUID is generated. The ID is stored in the request
// locals under "ray_id" and echoed in the response header.
func NewRayID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rayID := c.Get(RayIDHeader)
		if rayID == "" {
			rayID = uuid.NewString()
		}

		c.Locals("ray_id", rayID)
		c.Set(RayIDHeader, rayID)
		return c.Next()
	}
}
