package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Config holds the auth middleware settings.
type Config struct {
	// ApiKey is the expected key. An empty key disables the check.
	ApiKey string
	// Skip lists paths served without a key.
	Skip []string
}

// New returns a middleware that rejects requests without the configured key.
func New(cfg Config) fiber.Handler {
	skip := make(map[string]struct{}, len(cfg.Skip))
	for _, p := range cfg.Skip {
		skip[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if _, ok := skip[c.Path()]; ok {
			return c.Next()
		}
		key := c.Get(HeaderName)
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}
		return c.Next()
	}
}
