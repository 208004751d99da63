// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts user identity and roles set by Gateway.
// Every route behind the gateway needs a user; requests without the header
// never left the gateway and are rejected.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		rolesStr := c.Get("X-User-Roles")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		var roles []string
		isAdmin := false
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
					if r == "admin" {
						isAdmin = true
					}
				}
			}
		}

		// Attach to ctx for handlers
		c.Locals("user_id", userID)
		c.Locals("user_roles", roles)
		c.Locals("is_admin", isAdmin)

		return c.Next()
	}
}

// AdminOnly gates the review and correction routes on the gateway role.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isAdmin, _ := c.Locals("is_admin").(bool)
		if !isAdmin {
			log.Printf("🚫 [ADMIN] user %v denied on %s", c.Locals("user_id"), c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin role required",
			})
		}
		return c.Next()
	}
}
