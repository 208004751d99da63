// models/task.go
package models

import (
	"time"
)

const (
	ResponseTypeText = "text"
	ResponseTypeFile = "file"
)

// CreditBucket selects which of the submitter's point buckets receives the
// task's PointsFree yield on approval. The legacy schema called this column
// is_paid even though it never gated payment — it only picked the bucket.
const (
	CreditBucketFree = "free"
	CreditBucketPaid = "paid"
)

// Task is one calendar door. Seeded once at startup and thereafter read-only
// to the core; the publish scheduler is the only writer.
type Task struct {
	Day     int    `json:"day" gorm:"primaryKey;autoIncrement:false"`
	Title   string `json:"title" gorm:"not null"`
	Content string `json:"content"`
	Hint    string `json:"hint"`

	// 🖼️ Optional media references
	ImageURL string `json:"image_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`

	// 🎛️ Publishing state
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	PublishAt   *time.Time `json:"publish_at,omitempty"` // only used for held-back doors

	// Point yields credited when a submission for this door is approved
	PointsFree   int    `json:"points_free" gorm:"default:0"`
	PointsGlobal int    `json:"points_global" gorm:"default:0"`
	CreditBucket string `json:"credit_bucket" gorm:"type:varchar(8);default:'free'"`

	ResponseType string `json:"response_type" gorm:"type:varchar(8);default:'file'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTasks is the packaged catalog, upserted at startup. Operators adjust
// publication state afterwards; re-seeding only refreshes title and content.
var DefaultTasks = []Task{
	{Day: 1, Title: "Warm-Up Quiz", Content: "Answer the questions from our first quest recap.", Hint: "Think back to quest one.", IsPublished: true, PointsFree: 30, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeText},
	{Day: 2, Title: "Letter to Santa", Content: "Write your letter to Santa.", Hint: "He exists!", IsPublished: true, PointsFree: 20, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeText},
	{Day: 3, Title: "Main Channel", Content: "Subscribe to the company channel and send a screenshot.", Hint: "Thanks from the team!", IsPublished: true, PointsFree: 25, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeFile},
	{Day: 4, Title: "Holiday Drawing", Content: "Draw a holiday tree and upload a photo.", Hint: "Heart over technique.", IsPublished: true, PointsFree: 15, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeFile},
	{Day: 5, Title: "Spread the Word", Content: "Tell three friends about this quest and show us proof.", Hint: "Be convincing. Mention the prizes.", IsPublished: true, PointsFree: 50, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeFile},
	{Day: 6, Title: "First Order", Content: "Place an order in the shop (any size) and attach the receipt.", Hint: "Even the cheapest item counts.", IsPublished: true, PointsFree: 100, PointsGlobal: 5, CreditBucket: CreditBucketPaid, ResponseType: ResponseTypeFile},
	{Day: 7, Title: "Expectations", Content: "What do you expect from the upcoming product test?", Hint: "Be honest.", IsPublished: true, PointsFree: 30, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeText},
	{Day: 8, Title: "Best Memory", Content: "Write about the most memorable event of your year.", Hint: "Something interesting.", IsPublished: true, PointsFree: 15, PointsGlobal: 5, CreditBucket: CreditBucketFree, ResponseType: ResponseTypeText},
}
