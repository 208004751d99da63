package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stikovich/advent.calendar/config"
	"github.com/stikovich/advent.calendar/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A plain ":memory:" DSN gives every pooled connection its own empty
	// database, so queries outside the migrating connection (e.g. inside
	// transactions) would not see the schema. A uniquely named shared-cache
	// database keeps one schema per test across all connections.
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Task{},
		&models.CalendarUser{},
		&models.Points{},
		&models.GlobalProgress{},
		&models.Progress{},
		&models.Submission{},
		&models.Reward{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// testConfig runs a season around the wall clock so submission flows that
// check "is the day open right now" work regardless of when tests run.
func testConfig() *config.Config {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return &config.Config{
		SeasonStart:     config.Date{Time: today.AddDate(0, 0, -10)},
		SeasonEnd:       config.Date{Time: today.AddDate(0, 0, 10)},
		SeasonDays:      21,
		FreePointsCap:   1015,
		PaidPointsCap:   1001,
		GlobalPointsCap: 2026,
		PersonalRewards: config.RewardTable{
			{Type: "xalava", Points: 555},
			{Type: "small", Points: 1276},
			{Type: "merch", Points: 1444},
			{Type: "medium", Points: 1651},
			{Type: "dostavka", Points: 1888},
			{Type: "large", Points: 2026},
		},
		GlobalRewards: config.RewardTable{
			{Type: "sale", Points: 226},
			{Type: "xalava", Points: 777},
			{Type: "certificate", Points: 1013},
		},
		AllowedUploadExts: []string{"png", "jpg", "jpeg", "gif", "pdf", "txt", "webp", "heic", "heif"},
	}
}

// newTestStack builds the full service graph over an in-memory db.
func newTestStack(t *testing.T) (*gorm.DB, *config.Config, *CalendarService, *TaskService, *PointsService, *RewardService, *SubmissionService) {
	t.Helper()
	db := openTestDB(t)
	cfg := testConfig()
	calendar := NewCalendarService(cfg)
	tasks := NewTaskService(db)
	rewards := NewRewardService(db, cfg)
	points := NewPointsService(db, rewards, cfg)
	subs := NewSubmissionService(db, tasks, calendar, points, rewards)
	if err := points.EnsureGlobalProgress(); err != nil {
		t.Fatalf("init global progress: %v", err)
	}
	return db, cfg, calendar, tasks, points, rewards, subs
}
