package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/stikovich/advent.calendar/config"
	"github.com/stikovich/advent.calendar/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointsService owns the per-user point buckets and the global counter. Every
// mutation is read-modify-write-clamp under a row lock so two concurrent
// approvals for the same user cannot lose an update.
type PointsService struct {
	DB      *gorm.DB
	Rewards *RewardService
	cfg     *config.Config
}

func NewPointsService(db *gorm.DB, rewards *RewardService, cfg *config.Config) *PointsService {
	return &PointsService{DB: db, Rewards: rewards, cfg: cfg}
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

// lockForUpdate applies a row lock on dialects that support it. SQLite (used
// in tests) serializes writers itself and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AddPoints applies deltas to both buckets, clamping each to [0, cap], and
// re-evaluates reward thresholds in the same transaction. Deltas may be
// negative for admin corrections; the floor silently stops at 0, so callers
// that need a hard failure must pre-check (see RemovePoints).
func (s *PointsService) AddPoints(userID string, freeDelta, paidDelta int) (models.Points, error) {
	var row models.Points
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.AddPointsTx(tx, userID, freeDelta, paidDelta, &row); err != nil {
			return err
		}
		granted, err := s.Rewards.EvaluateAndGrant(tx, userID)
		if err != nil {
			return err
		}
		if len(granted) > 0 {
			log.Printf("🎁 Rewards granted to %s: %v", userID, granted)
		}
		return nil
	})
	return row, err
}

// AddPointsTx is the transactional core, for callers that already hold a
// transaction (submission approval bundles the whole credit sequence and
// runs its own reward evaluation afterwards).
func (s *PointsService) AddPointsTx(tx *gorm.DB, userID string, freeDelta, paidDelta int, out *models.Points) error {
	found := true
	err := lockForUpdate(tx).Where("user_id = ?", userID).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		*out = models.Points{ID: uuid.NewString(), UserID: userID}
		found = false
	} else if err != nil {
		return fmt.Errorf("load points for %s: %w", userID, err)
	}

	out.FreePoints = clamp(out.FreePoints+freeDelta, s.cfg.FreePointsCap)
	out.PaidPoints = clamp(out.PaidPoints+paidDelta, s.cfg.PaidPointsCap)

	if found {
		err = tx.Model(&models.Points{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
			"free_points": out.FreePoints,
			"paid_points": out.PaidPoints,
		}).Error
	} else {
		// First write for this user. The conflict clause absorbs the race
		// where two first writes slip past the (empty) lock query.
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"free_points", "paid_points", "updated_at"}),
		}).Create(out).Error
	}
	if err != nil {
		return fmt.Errorf("save points for %s: %w", userID, err)
	}
	return nil
}

// RemovePoints is the admin correction path. It refuses to subtract more than
// the user currently holds — the ledger itself would silently floor at zero,
// which hides operator typos.
func (s *PointsService) RemovePoints(userID string, points int) (models.Points, error) {
	current, err := s.GetPoints(userID)
	if err != nil {
		return models.Points{}, err
	}
	if points > current.Total() {
		return models.Points{}, ErrInsufficientPoints
	}
	return s.AddPoints(userID, -points, 0)
}

// GetPoints returns the user's balances; unknown users read as 0/0.
func (s *PointsService) GetPoints(userID string) (models.Points, error) {
	var row models.Points
	err := s.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Points{UserID: userID}, nil
	}
	if err != nil {
		return models.Points{}, fmt.Errorf("load points for %s: %w", userID, err)
	}
	return row, nil
}

// EnsureGlobalProgress creates the singleton counter row if absent. Runs at
// bootstrap; idempotent.
func (s *PointsService) EnsureGlobalProgress() error {
	row := models.GlobalProgress{ID: 1}
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("init global progress: %w", err)
	}
	return nil
}

// AddGlobalPoints applies a delta to the shared counter, clamped to
// [0, GlobalPointsCap]. Same floor policy as personal points.
func (s *PointsService) AddGlobalPoints(delta int) (int, error) {
	var row models.GlobalProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.AddGlobalPointsTx(tx, delta, &row)
	})
	return row.TotalPoints, err
}

// AddGlobalPointsTx is the in-transaction variant used by submission approval.
func (s *PointsService) AddGlobalPointsTx(tx *gorm.DB, delta int, out *models.GlobalProgress) error {
	if err := lockForUpdate(tx).First(out, "id = ?", 1).Error; err != nil {
		return fmt.Errorf("load global progress: %w", err)
	}
	out.TotalPoints = clamp(out.TotalPoints+delta, s.cfg.GlobalPointsCap)
	if err := tx.Model(&models.GlobalProgress{}).Where("id = ?", 1).
		Update("total_points", out.TotalPoints).Error; err != nil {
		return fmt.Errorf("save global progress: %w", err)
	}
	return nil
}

// RemoveGlobalPoints pre-checks the subtraction like RemovePoints does.
func (s *PointsService) RemoveGlobalPoints(points int) (int, error) {
	current, err := s.GetGlobal()
	if err != nil {
		return 0, err
	}
	if points > current {
		return 0, ErrInsufficientPoints
	}
	return s.AddGlobalPoints(-points)
}

// GetGlobal returns the shared counter; 0 before initialization.
func (s *PointsService) GetGlobal() (int, error) {
	var row models.GlobalProgress
	err := s.DB.First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load global progress: %w", err)
	}
	return row.TotalPoints, nil
}
