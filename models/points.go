package models

import (
	"time"

	"gorm.io/gorm"
)

// Points holds the two capped per-user balances. One row per user, written
// only by the points ledger under a row lock.
type Points struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`

	FreePoints int `json:"free_points" gorm:"default:0"`
	PaidPoints int `json:"paid_points" gorm:"default:0"`

	Timestamps
}

// Total is the personal total driving the personal reward thresholds.
func (p Points) Total() int {
	return p.FreePoints + p.PaidPoints
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
