// handlers/calendar_routes.go
package handlers

import (
	"time"

	"github.com/stikovich/advent.calendar/middleware"
	"github.com/stikovich/advent.calendar/services"

	"github.com/gofiber/fiber/v2"
)

// SetupCalendarRoutes wires the main calendar view. One endpoint returns
// everything the frontend needs to render the grid: doors, what's open,
// what's done, balances and reward progress.
func SetupCalendarRoutes(app *fiber.App, calendar *services.CalendarService, submissions *services.SubmissionService, points *services.PointsService, rewards *services.RewardService) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	secured.Get("/calendar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		now := time.Now()

		openedDays, err := submissions.OpenedDays(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

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

		awarded, err := rewards.ListUserRewards(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rewards",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"days":           calendar.Days(),
			"available_days": calendar.OpenDays(now),
			"opened_days":    openedDays,
			"free_points":    pts.FreePoints,
			"paid_points":    pts.PaidPoints,
			"total_points":   pts.Total(),
			"global_points":  globalTotal,
			"reward_targets": fiber.Map{
				"personal": rewards.PersonalTargets(),
				"global":   rewards.GlobalTargets(),
			},
			"awarded_rewards": awarded,
		})
	})
}
