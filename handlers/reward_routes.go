// handlers/reward_routes.go
package handlers

import (
	"github.com/stikovich/advent.calendar/middleware"
	"github.com/stikovich/advent.calendar/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRewardRoutes wires the points and rewards read endpoints plus the SSE
// stream. The stream authenticates via query token because EventSource cannot
// carry the gateway headers.
func SetupRewardRoutes(app *fiber.App, points *services.PointsService, rewards *services.RewardService, authClient *services.AuthServiceClient) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/user/points", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		pts, err := points.GetPoints(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load points",
				"cause": err.Error(),
			})
		}
		globalTotal, err := points.GetGlobal()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load global progress",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"free_points":   pts.FreePoints,
			"paid_points":   pts.PaidPoints,
			"total_points":  pts.Total(),
			"global_points": globalTotal,
		})
	})

	secured.Get("/user/rewards", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		awarded, err := rewards.ListUserRewards(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rewards",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"rewards": awarded,
			"targets": fiber.Map{
				"personal": rewards.PersonalTargets(),
				"global":   rewards.GlobalTargets(),
			},
		})
	})

	if authClient != nil {
		app.Get("/user/rewards/stream", middleware.SSEAuthMiddleware(authClient), rewards.StreamUserRewardsSSE)
	}
}
