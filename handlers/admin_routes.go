// handlers/admin_routes.go
package handlers

import (
	"errors"

	"github.com/stikovich/advent.calendar/middleware"
	"github.com/stikovich/advent.calendar/models"
	"github.com/stikovich/advent.calendar/services"
	"github.com/stikovich/advent.calendar/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the review queue and the correction endpoints. The
// whole group requires the admin role from gateway context.
func SetupAdminRoutes(app *fiber.App, submissions *services.SubmissionService, points *services.PointsService, tasks *services.TaskService, users *services.UserService) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.AdminOnly())

	// Review queue, oldest first. ?status=pending|approved|rejected filters.
	admin.Get("/submissions", func(c *fiber.Ctx) error {
		status := models.SubmissionStatus(c.Query("status"))
		rows, err := submissions.ListSubmissions(status)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list submissions",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"submissions": rows, "count": len(rows)})
	})

	admin.Post("/submissions/:id/approve", func(c *fiber.Ctx) error {
		sub, err := submissions.Approve(c.Params("id"))
		if err != nil {
			return reviewError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":    "submission approved",
			"submission": sub,
		})
	})

	admin.Post("/submissions/:id/reject", func(c *fiber.Ctx) error {
		type Req struct {
			Note string `json:"note" validate:"max=500"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := utils.ValidateStruct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		}

		sub, err := submissions.Reject(c.Params("id"), req.Note)
		if err != nil {
			return reviewError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":    "submission rejected",
			"submission": sub,
		})
	})

	// Manual corrections. Grants run through the same clamped ledger path as
	// approvals, so caps and reward evaluation apply identically.
	admin.Post("/points/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required"`
			Points int    `json:"points" validate:"required,min=1"`
			Bucket string `json:"bucket" validate:"omitempty,oneof=free paid"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := utils.ValidateStruct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		}

		freeDelta, paidDelta := req.Points, 0
		if req.Bucket == models.CreditBucketPaid {
			freeDelta, paidDelta = 0, req.Points
		}
		pts, err := points.AddPoints(req.UserID, freeDelta, paidDelta)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message":      "points granted",
			"user_id":      req.UserID,
			"free_points":  pts.FreePoints,
			"paid_points":  pts.PaidPoints,
			"total_points": pts.Total(),
		})
	})

	admin.Post("/points/revoke", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required"`
			Points int    `json:"points" validate:"required,min=1"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := utils.ValidateStruct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		}

		pts, err := points.RemovePoints(req.UserID, req.Points)
		if errors.Is(err, services.ErrInsufficientPoints) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points revoke failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message":      "points revoked",
			"user_id":      req.UserID,
			"total_points": pts.Total(),
		})
	})

	// Shared counter corrections. Users holding rewards already granted from
	// the old total keep them; the ratchet never runs backwards.
	admin.Post("/global/grant", func(c *fiber.Ctx) error {
		type Req struct {
			Points int `json:"points" validate:"required,min=1"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := utils.ValidateStruct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		}

		total, err := points.AddGlobalPoints(req.Points)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "global grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "global points granted", "global_points": total})
	})

	admin.Post("/global/revoke", func(c *fiber.Ctx) error {
		type Req struct {
			Points int `json:"points" validate:"required,min=1"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if err := utils.ValidateStruct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "cause": err.Error()})
		}

		total, err := points.RemoveGlobalPoints(req.Points)
		if errors.Is(err, services.ErrInsufficientPoints) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "global revoke failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "global points revoked", "global_points": total})
	})

	// Whole catalog including unpublished doors.
	admin.Get("/tasks", func(c *fiber.Ctx) error {
		all, err := tasks.ListTasks()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list tasks",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"tasks": all})
	})

	admin.Get("/users", users.SearchUsers)

	// Season dashboard: per-user totals next to their submission counts.
	admin.Get("/overview", func(c *fiber.Ctx) error {
		type OverviewRow struct {
			UserID       string `json:"user_id"`
			Username     string `json:"username"`
			FreePoints   int    `json:"free_points"`
			PaidPoints   int    `json:"paid_points"`
			Approved     int    `json:"approved"`
			Pending      int    `json:"pending"`
			Rejected     int    `json:"rejected"`
			RewardsCount int    `json:"rewards_count"`
		}
		var rows []OverviewRow
		if err := points.DB.Raw(`
			SELECT p.user_id,
			       COALESCE(cu.username, '') AS username,
			       p.free_points, p.paid_points,
			       COALESCE(SUM(CASE WHEN s.status = 'approved' THEN 1 ELSE 0 END), 0) AS approved,
			       COALESCE(SUM(CASE WHEN s.status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			       COALESCE(SUM(CASE WHEN s.status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected,
			       (SELECT COUNT(*) FROM rewards r WHERE r.user_id = p.user_id) AS rewards_count
			FROM points p
			LEFT JOIN calendar_users cu ON cu.external_user_id = p.user_id
			LEFT JOIN submissions s ON s.user_id = p.user_id
			GROUP BY p.user_id, cu.username, p.free_points, p.paid_points
			ORDER BY p.free_points + p.paid_points DESC
		`).Scan(&rows).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to build overview",
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
		return c.JSON(fiber.Map{"users": rows, "global_points": globalTotal})
	})
}

func reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadyProcessed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "review action failed",
			"cause": err.Error(),
		})
	}
}
