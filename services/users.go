// services/users.go
package services

import (
	"strconv"
	"strings"

	"github.com/stikovich/advent.calendar/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserService reads the mirrored user directory (filled by the sync worker).
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// SearchUsers searches the mirrored calendar_users table. Admins use it to
// find a user before granting or revoking points.
func (s *UserService) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q", "")
	limitStr := c.Query("limit", "50")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	var users []models.CalendarUser
	db := s.DB.Model(&models.CalendarUser{}).Limit(limit)

	if query != "" {
		searchTerm := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ?",
			searchTerm, searchTerm,
		)
	}

	if err := db.Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "search failed", "details": err.Error()})
	}

	// Minimal response shape; the external ID is the identifier every other
	// endpoint keys on.
	type UserSummary struct {
		ID             string `json:"id"`
		ExternalUserID string `json:"external_user_id"`
		Username       string `json:"username"`
		Email          string `json:"email"`
	}

	res := make([]UserSummary, len(users))
	for i, u := range users {
		res[i] = UserSummary{
			ID:             u.ID,
			ExternalUserID: u.ExternalUserID,
			Username:       u.Username,
			Email:          u.Email,
		}
	}

	return c.JSON(res)
}
