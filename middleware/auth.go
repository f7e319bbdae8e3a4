// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LearnerIDKey is the fiber.Locals key holding the learner id set by the Gateway.
const LearnerIDKey = "learner_id"

// UserContextMiddleware extracts the learner identity set by Gateway. Every route it
// guards acts on that learner's own balance, so the header is mandatory.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		learnerID := strings.TrimSpace(c.Get("X-User-ID"))
		if learnerID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing: %s %s", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals(LearnerIDKey, learnerID)
		return c.Next()
	}
}

// LearnerID returns the id stored by UserContextMiddleware.
func LearnerID(c *fiber.Ctx) string {
	id, _ := c.Locals(LearnerIDKey).(string)
	return id
}
