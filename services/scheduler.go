// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/stikovich/advent.calendar/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *TaskService) StartPublishScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: publish held-back doors whose publish_at has arrived
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var tasks []models.Task
			now := time.Now()
			err := s.DB.Where("is_published = ? AND publish_at IS NOT NULL AND publish_at <= ?", false, now).
				Find(&tasks).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, t := range tasks {
				t.IsPublished = true
				t.PublishAt = nil
				if err := s.DB.Save(&t).Error; err != nil {
					log.Printf("[Scheduler] Failed to publish task for day %d: %v", t.Day, err)
				} else {
					log.Printf("✅ Auto-published task: day %d (%s)", t.Day, t.Title)
				}
			}
		}),
	)
}
