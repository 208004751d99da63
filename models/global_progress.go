package models

import "time"

// GlobalProgress is the single shared counter across all users. Exactly one
// row exists (id = 1), created at bootstrap if absent; the points ledger is
// its only writer.
type GlobalProgress struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false;check:id = 1" json:"id"`
	TotalPoints int       `json:"total_points" gorm:"default:0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (GlobalProgress) TableName() string {
	return "global_progress"
}
