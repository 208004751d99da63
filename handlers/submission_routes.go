// handlers/submission_routes.go
package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/stikovich/advent.calendar/middleware"
	"github.com/stikovich/advent.calendar/models"
	"github.com/stikovich/advent.calendar/services"
	"github.com/stikovich/advent.calendar/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupSubmissionRoutes wires the per-door view and the submit endpoint.
func SetupSubmissionRoutes(app *fiber.App, calendar *services.CalendarService, tasks *services.TaskService, submissions *services.SubmissionService, allowedExts []string) {
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Door detail: the task plus the user's own submission state for it.
	secured.Get("/days/:day", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		day, err := strconv.Atoi(c.Params("day"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid day"})
		}

		if !calendar.IsDayOpen(day, time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": services.ErrDayClosed.Error()})
		}

		task, err := tasks.GetTask(day)
		if err != nil {
			return submissionError(c, err)
		}

		sub, err := submissions.GetUserSubmission(userID, day)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load submission",
				"cause": err.Error(),
			})
		}

		resp := fiber.Map{"task": task, "submission": sub}
		if sub != nil {
			resp["submission_status"] = sub.Status
		}
		return c.JSON(resp)
	})

	// Submit a response. Text tasks take a form field, file tasks a multipart
	// upload. The file is stored before the row is inserted; a duplicate
	// submit can therefore orphan an object, which is acceptable.
	secured.Post("/days/:day/submission", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		day, err := strconv.Atoi(c.Params("day"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid day"})
		}

		if !calendar.IsDayOpen(day, time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": services.ErrDayClosed.Error()})
		}
		task, err := tasks.GetTask(day)
		if err != nil {
			return submissionError(c, err)
		}

		// Duplicate pre-check so a repeat submit fails before the upload.
		// The unique index still backstops the race.
		existing, err := submissions.GetUserSubmission(userID, day)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to check submission",
				"cause": err.Error(),
			})
		}
		if existing != nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": services.ErrAlreadySubmitted.Error()})
		}

		in := services.SubmitInput{UserID: userID, Day: day}

		if task.ResponseType == models.ResponseTypeText {
			in.TextResponse = c.FormValue("text_response")
		} else {
			fileHeader, err := c.FormFile("file")
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrMissingFile.Error()})
			}
			if !utils.AllowedFile(fileHeader.Filename, allowedExts) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrBadFileType.Error()})
			}
			key := utils.AttachmentKey(day, userID, fileHeader.Filename)
			fileURL, err := utils.StoreAttachment(fileHeader, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to store attachment",
					"cause": err.Error(),
				})
			}
			in.FileURL = fileURL
		}

		sub, err := submissions.Submit(in)
		if err != nil {
			return submissionError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(sub)
	})
}

// submissionError maps domain sentinels onto HTTP statuses; anything
// unrecognized is a 500 with the cause attached.
func submissionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDayClosed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrTaskNotPublished):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAlreadySubmitted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEmptyResponse), errors.Is(err, services.ErrMissingFile), errors.Is(err, services.ErrBadFileType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "submission failed",
			"cause": err.Error(),
		})
	}
}
