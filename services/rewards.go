// services/rewards.go
package services

import (
	"errors"
	"fmt"

	"github.com/stikovich/advent.calendar/config"
	"github.com/stikovich/advent.calendar/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RewardService grants threshold rewards. A grant is a one-way ratchet tied
// to the historical peak: once a threshold is crossed the Reward row stays
// even if an admin correction later drops the total back below it.
type RewardService struct {
	DB       *gorm.DB
	personal config.RewardTable
	global   config.RewardTable
}

func NewRewardService(db *gorm.DB, cfg *config.Config) *RewardService {
	return &RewardService{DB: db, personal: cfg.PersonalRewards, global: cfg.GlobalRewards}
}

// EvaluateAndGrant checks both threshold tables for the user and inserts a
// Reward row for every newly crossed one. Idempotent: already-granted types
// are skipped, and a concurrent duplicate insert is absorbed by the
// (user_id, reward_type) unique index. Runs inside the caller's transaction
// so a failed approval takes its grants down with it.
//
// The granted set is keyed by type across both scopes — the observed tables
// share a tag, and whichever table grants it first wins.
func (s *RewardService) EvaluateAndGrant(tx *gorm.DB, userID string) ([]string, error) {
	personalTotal := 0
	var pts models.Points
	err := tx.Where("user_id = ?", userID).First(&pts).Error
	if err == nil {
		personalTotal = pts.Total()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load points for %s: %w", userID, err)
	}

	var rows []models.Reward
	if err := tx.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load granted rewards for %s: %w", userID, err)
	}
	granted := make(map[string]bool, len(rows))
	for _, r := range rows {
		granted[r.RewardType] = true
	}

	var newlyGranted []string
	grant := func(target config.RewardTarget, scope models.RewardScope) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Reward{
			ID:         uuid.NewString(),
			UserID:     userID,
			RewardType: target.Type,
			Scope:      scope,
		})
		if res.Error != nil {
			return fmt.Errorf("grant reward %s to %s: %w", target.Type, userID, res.Error)
		}
		// RowsAffected 0 means another writer granted it first; fail closed
		// as already-granted rather than double-grant.
		if res.RowsAffected > 0 {
			granted[target.Type] = true
			newlyGranted = append(newlyGranted, target.Type)
		}
		return nil
	}

	for _, target := range s.personal {
		if personalTotal >= target.Points && !granted[target.Type] {
			if err := grant(target, models.RewardScopePersonal); err != nil {
				return nil, err
			}
		}
	}

	globalTotal := 0
	var gp models.GlobalProgress
	err = tx.First(&gp, "id = ?", 1).Error
	if err == nil {
		globalTotal = gp.TotalPoints
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load global progress: %w", err)
	}

	// Global rewards are still recorded per-user: the counter is shared but
	// prizes are individual, handed out as each user gets re-evaluated.
	for _, target := range s.global {
		if globalTotal >= target.Points && !granted[target.Type] {
			if err := grant(target, models.RewardScopeGlobal); err != nil {
				return nil, err
			}
		}
	}

	return newlyGranted, nil
}

// ListUserRewards returns everything granted to the user, oldest first.
func (s *RewardService) ListUserRewards(userID string) ([]models.Reward, error) {
	var rewards []models.Reward
	err := s.DB.Where("user_id = ?", userID).Order("awarded_at ASC").Find(&rewards).Error
	if err != nil {
		return nil, fmt.Errorf("list rewards for %s: %w", userID, err)
	}
	return rewards, nil
}

// PersonalTargets exposes the configured personal threshold table (read-only).
func (s *RewardService) PersonalTargets() config.RewardTable { return s.personal }

// GlobalTargets exposes the configured global threshold table (read-only).
func (s *RewardService) GlobalTargets() config.RewardTable { return s.global }
