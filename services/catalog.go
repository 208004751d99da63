package services

import (
	"errors"
	"fmt"

	"github.com/stikovich/advent.calendar/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskService is the read-only task catalog plus the seed and publish
// plumbing around it. Tasks are authored out of band; the core only reads.
type TaskService struct {
	DB *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{DB: db}
}

// GetTask returns the published task for a door. Unpublished tasks are
// invisible to users.
func (s *TaskService) GetTask(day int) (models.Task, error) {
	task, err := s.GetTaskAny(day)
	if err != nil {
		return models.Task{}, err
	}
	if !task.IsPublished {
		return models.Task{}, ErrTaskNotPublished
	}
	return task, nil
}

// GetTaskAny ignores the published flag (admin review needs the yields of
// unpublished doors too).
func (s *TaskService) GetTaskAny(day int) (models.Task, error) {
	var task models.Task
	err := s.DB.First(&task, "day = ?", day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("load task for day %d: %w", day, err)
	}
	return task, nil
}

// ListTasks returns the whole catalog ordered by day.
func (s *TaskService) ListTasks() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.DB.Order("day ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// SeedTasks upserts the packaged catalog. Re-running only refreshes title and
// content so operator edits to publication state survive restarts.
func (s *TaskService) SeedTasks(tasks []models.Task) error {
	for i := range tasks {
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content"}),
		}).Create(&tasks[i]).Error; err != nil {
			return fmt.Errorf("seed task for day %d: %w", tasks[i].Day, err)
		}
	}
	return nil
}
