package services

import (
	"errors"
	"testing"

	"github.com/stikovich/advent.calendar/models"
)

func TestSeedTasksPreservesOperatorState(t *testing.T) {
	_, _, _, tasks, _, _, _ := newTestStack(t)

	seed := []models.Task{
		{Day: 1, Title: "Door One", Content: "first", IsPublished: true, PointsFree: 10, CreditBucket: models.CreditBucketFree, ResponseType: models.ResponseTypeText},
		{Day: 2, Title: "Door Two", Content: "second", IsPublished: true, PointsFree: 20, CreditBucket: models.CreditBucketFree, ResponseType: models.ResponseTypeText},
	}
	if err := tasks.SeedTasks(seed); err != nil {
		t.Fatalf("SeedTasks: %v", err)
	}

	// Operator unpublishes door 2, then the service restarts and re-seeds.
	if err := tasks.DB.Model(&models.Task{}).Where("day = ?", 2).Update("is_published", false).Error; err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	seed[1].Content = "second, revised"
	if err := tasks.SeedTasks(seed); err != nil {
		t.Fatalf("re-seed: %v", err)
	}

	task, err := tasks.GetTaskAny(2)
	if err != nil {
		t.Fatalf("GetTaskAny: %v", err)
	}
	if task.Content != "second, revised" {
		t.Errorf("content = %q, re-seed should refresh it", task.Content)
	}
	if task.IsPublished {
		t.Error("re-seed must not flip publication state back on")
	}
}

func TestGetTaskVisibility(t *testing.T) {
	_, _, _, tasks, _, _, _ := newTestStack(t)
	if err := tasks.DB.Create(&models.Task{Day: 4, Title: "Hidden", ResponseType: models.ResponseTypeText, CreditBucket: models.CreditBucketFree}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := tasks.GetTask(4); !errors.Is(err, ErrTaskNotPublished) {
		t.Errorf("GetTask(unpublished) err = %v, want ErrTaskNotPublished", err)
	}
	if _, err := tasks.GetTaskAny(4); err != nil {
		t.Errorf("GetTaskAny(unpublished): %v", err)
	}
	if _, err := tasks.GetTask(9); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("GetTask(missing) err = %v, want ErrTaskNotFound", err)
	}
}

func TestListTasksOrdered(t *testing.T) {
	_, _, _, tasks, _, _, _ := newTestStack(t)
	for _, day := range []int{3, 1, 2} {
		if err := tasks.DB.Create(&models.Task{Day: day, Title: "t", ResponseType: models.ResponseTypeText, CreditBucket: models.CreditBucketFree}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	all, err := tasks.ListTasks()
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	for i, task := range all {
		if task.Day != i+1 {
			t.Fatalf("tasks out of order: %v", all)
		}
	}
}
