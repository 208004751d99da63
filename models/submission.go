package models

import "time"

// SubmissionStatus tracks a response through review: pending until an admin
// adjudicates, then approved or rejected. Both review states are terminal.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is a user's response to a daily task. The (user_id, day) unique
// index closes the race between two concurrent submits for the same door.
// Exactly one of FileURL / TextResponse is populated, chosen by the task's
// response type.
type Submission struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"not null;uniqueIndex:idx_submissions_user_day" json:"user_id"`
	Day    int    `gorm:"not null;uniqueIndex:idx_submissions_user_day" json:"day"`

	FileURL      string `json:"file_url,omitempty"`      // opaque reference from attachment storage
	TextResponse string `json:"text_response,omitempty"`

	SubmittedAt time.Time        `json:"submitted_at"`
	Status      SubmissionStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	ReviewNote  string           `json:"review_note,omitempty"`
}
