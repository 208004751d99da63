package models

import (
	"time"

	"gorm.io/gorm"
)

// CalendarUser is a local snapshot of user data needed for calendar views and
// the admin dashboard. Owned and managed solely by the calendar service.
// Populated via sync worker from the auth service's profile feed — the core
// never sees credentials, only the identity the gateway forwards.
type CalendarUser struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // the auth service's UUID
	Username       string `gorm:"index;not null" json:"username"`
	Email          string `json:"email,omitempty"`
	IsAdmin        bool   `gorm:"default:false" json:"is_admin"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Soft delete (account deactivated upstream)
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
