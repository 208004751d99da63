package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stikovich/advent.calendar/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubmissionService runs the response lifecycle: submit, then a single admin
// decision (approve or reject). Approval is the only path that credits points.
type SubmissionService struct {
	DB       *gorm.DB
	Tasks    *TaskService
	Calendar *CalendarService
	Points   *PointsService
	Rewards  *RewardService
}

func NewSubmissionService(db *gorm.DB, tasks *TaskService, calendar *CalendarService, points *PointsService, rewards *RewardService) *SubmissionService {
	return &SubmissionService{DB: db, Tasks: tasks, Calendar: calendar, Points: points, Rewards: rewards}
}

// SubmitInput carries a validated response. FileURL is already stored by the
// handler (upload happens before the row exists, so an orphaned object on a
// failed insert is possible and acceptable).
type SubmitInput struct {
	UserID       string
	Day          int
	FileURL      string
	TextResponse string
}

// Submit records a pending response for an open door. One submission per user
// per day, enforced by the unique index so a concurrent double-submit loses
// cleanly with ErrAlreadySubmitted.
func (s *SubmissionService) Submit(in SubmitInput) (models.Submission, error) {
	if !s.Calendar.IsDayOpen(in.Day, time.Now()) {
		return models.Submission{}, ErrDayClosed
	}
	task, err := s.Tasks.GetTask(in.Day)
	if err != nil {
		return models.Submission{}, err
	}

	switch task.ResponseType {
	case models.ResponseTypeText:
		if strings.TrimSpace(in.TextResponse) == "" {
			return models.Submission{}, ErrEmptyResponse
		}
		in.FileURL = ""
	default:
		if in.FileURL == "" {
			return models.Submission{}, ErrMissingFile
		}
		in.TextResponse = ""
	}

	sub := models.Submission{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Day:          in.Day,
		FileURL:      in.FileURL,
		TextResponse: in.TextResponse,
		SubmittedAt:  time.Now(),
		Status:       models.SubmissionPending,
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Submission{}, ErrAlreadySubmitted
		}
		return models.Submission{}, fmt.Errorf("create submission: %w", err)
	}

	log.Printf("📬 Submission received: user %s, day %d", in.UserID, in.Day)
	return sub, nil
}

// Approve settles a pending submission in one transaction: flip the status,
// credit the submitter's bucket and the shared counter with the task's yields,
// re-check reward thresholds, and mark the door completed. A concurrent second
// approve sees the row already flipped under the lock and gets
// ErrAlreadyProcessed, so the credit happens exactly once.
func (s *SubmissionService) Approve(submissionID string) (models.Submission, error) {
	var sub models.Submission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&sub, "id = ?", submissionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return fmt.Errorf("load submission %s: %w", submissionID, err)
		}
		if sub.Status != models.SubmissionPending {
			return ErrAlreadyProcessed
		}

		task, err := s.Tasks.GetTaskAny(sub.Day)
		if err != nil {
			return err
		}

		now := time.Now()
		sub.Status = models.SubmissionApproved
		sub.ReviewedAt = &now
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("save submission %s: %w", submissionID, err)
		}

		freeDelta, paidDelta := task.PointsFree, 0
		if task.CreditBucket == models.CreditBucketPaid {
			freeDelta, paidDelta = 0, task.PointsFree
		}
		var pts models.Points
		if err := s.Points.AddPointsTx(tx, sub.UserID, freeDelta, paidDelta, &pts); err != nil {
			return err
		}
		var gp models.GlobalProgress
		if err := s.Points.AddGlobalPointsTx(tx, task.PointsGlobal, &gp); err != nil {
			return err
		}

		granted, err := s.Rewards.EvaluateAndGrant(tx, sub.UserID)
		if err != nil {
			return err
		}
		if len(granted) > 0 {
			log.Printf("🎁 Rewards granted to %s: %v", sub.UserID, granted)
		}

		// Completion marker for the calendar view. Approving twice is blocked
		// above, but the marker itself is idempotent anyway.
		progress := models.Progress{UserID: sub.UserID, Day: sub.Day, OpenedAt: now}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&progress).Error; err != nil {
			return fmt.Errorf("mark day %d complete for %s: %w", sub.Day, sub.UserID, err)
		}
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	log.Printf("✅ Submission approved: user %s, day %d", sub.UserID, sub.Day)
	return sub, nil
}

// Reject closes a pending submission without crediting anything. Terminal:
// the (user_id, day) index keeps the user from submitting again, so a reject
// is final for that door.
func (s *SubmissionService) Reject(submissionID, note string) (models.Submission, error) {
	var sub models.Submission
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&sub, "id = ?", submissionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		if err != nil {
			return fmt.Errorf("load submission %s: %w", submissionID, err)
		}
		if sub.Status != models.SubmissionPending {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		sub.Status = models.SubmissionRejected
		sub.ReviewedAt = &now
		sub.ReviewNote = note
		if err := tx.Save(&sub).Error; err != nil {
			return fmt.Errorf("save submission %s: %w", submissionID, err)
		}
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}

	log.Printf("🚫 Submission rejected: user %s, day %d", sub.UserID, sub.Day)
	return sub, nil
}

// SubmissionReview is the admin queue row: the submission joined with who
// sent it and what the door pays out.
type SubmissionReview struct {
	models.Submission
	Username     string `json:"username"`
	TaskTitle    string `json:"task_title"`
	PointsFree   int    `json:"points_free"`
	PointsGlobal int    `json:"points_global"`
	CreditBucket string `json:"credit_bucket"`
}

// ListSubmissions returns the review queue, optionally filtered by status,
// oldest first so the queue drains in arrival order.
func (s *SubmissionService) ListSubmissions(status models.SubmissionStatus) ([]SubmissionReview, error) {
	query := s.DB.Table("submissions").
		Select(`submissions.*,
			calendar_users.username AS username,
			tasks.title AS task_title,
			tasks.points_free AS points_free,
			tasks.points_global AS points_global,
			tasks.credit_bucket AS credit_bucket`).
		Joins("LEFT JOIN calendar_users ON calendar_users.external_user_id = submissions.user_id").
		Joins("LEFT JOIN tasks ON tasks.day = submissions.day").
		Order("submissions.submitted_at ASC")
	if status != "" {
		query = query.Where("submissions.status = ?", status)
	}

	var rows []SubmissionReview
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return rows, nil
}

// GetUserSubmission returns the user's submission for a door, if any.
func (s *SubmissionService) GetUserSubmission(userID string, day int) (*models.Submission, error) {
	var sub models.Submission
	err := s.DB.Where("user_id = ? AND day = ?", userID, day).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load submission for user %s day %d: %w", userID, day, err)
	}
	return &sub, nil
}

// OpenedDays returns the doors the user has completed (approved submissions).
func (s *SubmissionService) OpenedDays(userID string) ([]int, error) {
	var days []int
	err := s.DB.Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Order("day ASC").
		Pluck("day", &days).Error
	if err != nil {
		return nil, fmt.Errorf("list opened days for %s: %w", userID, err)
	}
	return days, nil
}
