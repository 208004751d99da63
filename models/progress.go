package models

import "time"

// Progress marks a (user, day) door as opened. Written exactly once, when the
// day's submission reaches approved; never updated or deleted afterwards.
type Progress struct {
	UserID   string    `gorm:"primaryKey" json:"user_id"`
	Day      int       `gorm:"primaryKey;autoIncrement:false" json:"day"`
	OpenedAt time.Time `json:"opened_at"`
}

func (Progress) TableName() string {
	return "progress"
}
