package httpx

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderAPIKey = "X-API-Key"

func deny(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{Error: msg})
}

// RequireAPIKey only checks that a key was sent.
func RequireAPIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(HeaderAPIKey) == "" {
			return deny(c, "API Key required")
		}
		return c.Next()
	}
}

// RequireWriteKey accepts keys of the form <prefix><uuid>. The prefix is
// matched case-insensitively.
func RequireWriteKey(prefix string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderAPIKey)
		if key == "" {
			return deny(c, "API Key required")
		}
		if !ValidWriteKey(prefix, key) {
			return deny(c, "Invalid API Key format")
		}
		return c.Next()
	}
}

// RequireReportKey accepts only the configured report key.
func RequireReportKey(expected string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderAPIKey)
		if key == "" {
			return deny(c, "API Key required")
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			return deny(c, "Invalid API Key for report")
		}
		return c.Next()
	}
}

func ValidWriteKey(prefix, key string) bool {
	if len(key) != len(prefix)+36 || !strings.EqualFold(key[:len(prefix)], prefix) {
		return false
	}
	rest := key[len(prefix):]
	_, err := uuid.Parse(rest)
	return err == nil
}
