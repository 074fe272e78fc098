package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the ray id on requests and responses.
	HeaderName = "X-Ray-ID"
	// LocalsKey is where the ray id is stored on the Fiber context.
	LocalsKey = "ray_id"
)

// New returns a middleware that assigns every request a ray id. An incoming
// X-Ray-ID header is reused.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
