// middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/stikovich/advent.calendar/services"
)

// SSEAuthMiddleware validates `token` from the query string via the auth
// service. EventSource clients cannot set headers, so the gateway context
// middleware never fires for the stream route and the token travels in the
// URL instead.
//
// Usage:
//
//	app.Get("/user/rewards/stream", middleware.SSEAuthMiddleware(authClient), rewardService.StreamUserRewardsSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("token")))
		if accessToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token in query",
			})
		}

		resp, err := authClient.ValidateToken(accessToken)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for token (prefix: %.10s...): %v", accessToken, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("user_id", resp.UserID)
		c.Locals("user_roles", resp.Roles)

		return c.Next()
	}
}
